package otpcodes

import (
	"context"
	"sync"
	"time"

	"github.com/irezaei/memberhub/internal/common"
)

type memoryEntry struct {
	code    string
	expires time.Time
}

// MemoryRepository is a single-process implementation used in tests and
// local development. Expiry is checked lazily on Consume.
type MemoryRepository struct {
	mu    sync.Mutex
	codes map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		codes: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (r *MemoryRepository) Save(_ context.Context, phone, code string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[phone] = memoryEntry{code: code, expires: r.now().Add(ttl)}
	return nil
}

func (r *MemoryRepository) Consume(_ context.Context, phone string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.codes[phone]
	if !ok {
		return "", common.ErrNotFound
	}
	delete(r.codes, phone)

	if r.now().After(e.expires) {
		return "", common.ErrNotFound
	}
	return e.code, nil
}
