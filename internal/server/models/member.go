// Package models holds the persistent entities of the memberhub server.
package models

import "time"

// Role is the closed set of member roles. Keeping it a distinct type lets
// the authorization layer switch exhaustively instead of comparing raw
// strings.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient:
		return true
	}
	return false
}

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	switch g {
	case "male", "female", "other":
		return true
	}
	return false
}

// Member is the sole entity: one user account. PasswordHash is excluded
// from JSON and from repository reads that feed client responses.
type Member struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	FirstName     string     `bson:"firstName" json:"firstName"`
	LastName      string     `bson:"lastName" json:"lastName"`
	Email         string     `bson:"email" json:"email"`
	PhoneNumber   string     `bson:"phoneNumber" json:"phoneNumber"`
	PasswordHash  string     `bson:"password,omitempty" json:"-"`
	Role          Role       `bson:"role" json:"role"`
	Gender        string     `bson:"gender" json:"gender"`
	TermsAccepted bool       `bson:"termsAccepted" json:"termsAccepted"`
	IsActive      bool       `bson:"isActive" json:"isActive"`
	LastLogin     *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	AvatarKey     string     `bson:"avatarKey,omitempty" json:"avatarKey,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Summary is the identity shape returned by login, registration and /me.
// It never carries the password hash.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Email string `json:"email"`
}

// Summary builds the client-facing identity summary for m.
func (m *Member) Summary() Summary {
	return Summary{
		ID:    m.ID,
		Name:  m.FirstName + " " + m.LastName,
		Role:  m.Role,
		Email: m.Email,
	}
}
