// Package otpcodes declares the expiring key-value contract for one-time
// login codes. The store is injected rather than process-global so codes
// survive restarts and are shared across server instances.
package otpcodes

import (
	"context"
	"time"
)

// Repository stores one code per phone number with a bounded lifetime.
type Repository interface {
	// Save stores code for phone, replacing any previous code, expiring
	// after ttl.
	Save(ctx context.Context, phone, code string, ttl time.Duration) error

	// Consume returns the stored code for phone and removes it in the same
	// step, so a code can be checked at most once. An absent or expired
	// code yields common.ErrNotFound.
	Consume(ctx context.Context, phone string) (string, error)
}
