package otpcodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/irezaei/memberhub/internal/common"
)

func TestMemoryRepository_SaveAndConsume(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "09120000000", "123456", time.Minute))

	code, err := r.Consume(ctx, "09120000000")
	require.NoError(t, err)
	require.Equal(t, "123456", code)
}

func TestMemoryRepository_ConsumeIsSingleUse(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "09120000000", "654321", time.Minute))

	_, err := r.Consume(ctx, "09120000000")
	require.NoError(t, err)

	_, err = r.Consume(ctx, "09120000000")
	require.True(t, errors.Is(err, common.ErrNotFound), "second consume must miss, got %v", err)
}

func TestMemoryRepository_Expiry(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	now := time.Now()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Save(ctx, "09120000000", "111111", 2*time.Minute))

	r.now = func() time.Time { return now.Add(3 * time.Minute) }

	_, err := r.Consume(ctx, "09120000000")
	require.True(t, errors.Is(err, common.ErrNotFound), "expired code must miss, got %v", err)
}

func TestMemoryRepository_UnknownPhone(t *testing.T) {
	r := NewMemoryRepository()

	_, err := r.Consume(context.Background(), "09999999999")
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func TestMemoryRepository_SaveReplacesPreviousCode(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "09120000000", "111111", time.Minute))
	require.NoError(t, r.Save(ctx, "09120000000", "222222", time.Minute))

	code, err := r.Consume(ctx, "09120000000")
	require.NoError(t, err)
	require.Equal(t, "222222", code)
}
