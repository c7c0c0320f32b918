// Package members declares the repository contract for persisting member
// accounts in the document store.
package members

import (
	"context"
	"time"

	"github.com/irezaei/memberhub/internal/server/models"
)

// Update carries a partial member update. Nil fields are left untouched;
// the storage layer resolves concurrent writers last-writer-wins. Which
// fields a caller may populate is decided above this layer: the
// self-service path never sets Role or IsActive.
type Update struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PhoneNumber  *string
	PasswordHash *string
	Gender       *string
	Role         *models.Role
	IsActive     *bool
	AvatarKey    *string
}

// GenderCount is one bucket of the gender breakdown.
type GenderCount struct {
	Gender string `bson:"_id" json:"gender"`
	Count  int64  `bson:"count" json:"count"`
}

// Stats aggregates the dashboard numbers.
type Stats struct {
	TotalMembers  int64            `json:"totalUsers"`
	AdminMembers  int64            `json:"adminUsers"`
	ActiveMembers int64            `json:"activeUsers"`
	NewToday      int64            `json:"newUsersToday"`
	GenderStats   []GenderCount    `json:"genderStats"`
	RecentMembers []*models.Member `json:"recentUsers"`
}

// Repository defines the operations the services need from the account
// store. Uniqueness of email and phone number is enforced at this layer;
// a conflicting write returns common.ErrDuplicate.
type Repository interface {
	// Create inserts a new member and returns it with its assigned ID.
	Create(ctx context.Context, m *models.Member) (*models.Member, error)

	// FindByID returns the member without its password hash, or
	// common.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Member, error)

	// FindByEmailAndPhone returns the member matching BOTH values,
	// including the password hash. Used only by login.
	FindByEmailAndPhone(ctx context.Context, email, phone string) (*models.Member, error)

	// FindByIDWithHash returns the member including the password hash.
	// Used only by the password-change path to verify the current secret.
	FindByIDWithHash(ctx context.Context, id string) (*models.Member, error)

	// FindByPhone returns the member with the given phone number, without
	// its password hash.
	FindByPhone(ctx context.Context, phone string) (*models.Member, error)

	// ExistsByEmailOrPhone reports whether any member already holds either
	// value.
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)

	// List returns all members, newest first, without password hashes.
	List(ctx context.Context) ([]*models.Member, error)

	// Update applies the non-nil fields of upd and returns the updated
	// member without its password hash.
	Update(ctx context.Context, id string, upd Update) (*models.Member, error)

	// Delete removes the member permanently. Unknown id yields
	// common.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// SetLastLogin records a successful authentication at the given time.
	SetLastLogin(ctx context.Context, id string, at time.Time) error

	// Stats computes the dashboard aggregates.
	Stats(ctx context.Context) (*Stats, error)
}
