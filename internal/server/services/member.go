// Package services contains the server-side business logic. This file
// implements MemberService: registration, the two-factor-lookup login,
// self-service profile updates, and the admin member operations.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/irezaei/memberhub/internal/common"
	"github.com/irezaei/memberhub/internal/server/auth"
	"github.com/irezaei/memberhub/internal/server/config"
	"github.com/irezaei/memberhub/internal/server/models"
	"github.com/irezaei/memberhub/internal/server/repositories/members"
)

type MemberService struct {
	repo            members.Repository
	jwtSecret       []byte
	sessionValidity time.Duration
	adminEmail      string
}

func NewMemberService(repo members.Repository, cfg *config.Config) *MemberService {
	return &MemberService{
		repo:            repo,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionTokenValidity,
		adminEmail:      strings.ToLower(cfg.AdminEmail),
	}
}

// RegisterInput carries a self-service registration request.
type RegisterInput struct {
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
	Password      string
	Gender        string
	TermsAccepted bool
}

func (in *RegisterInput) validate() error {
	if !in.TermsAccepted {
		return fmt.Errorf("%w: terms must be accepted", common.ErrValidation)
	}
	if !models.ValidGender(in.Gender) {
		return fmt.Errorf("%w: unknown gender %q", common.ErrValidation, in.Gender)
	}
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.PhoneNumber == "" || in.Password == "" {
		return fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// Register creates a new account and mints its first session token.
// The bootstrap admin address gets the admin role; everyone else is a
// client and cannot choose otherwise.
func (s *MemberService) Register(ctx context.Context, in RegisterInput) (*models.Member, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	exists, err := s.repo.ExistsByEmailOrPhone(ctx, email, in.PhoneNumber)
	if err != nil {
		return nil, "", fmt.Errorf("checking existing members: %w", err)
	}
	if exists {
		return nil, "", common.ErrDuplicate
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
	}

	role := models.RoleClient
	if email == s.adminEmail {
		role = models.RoleAdmin
	}

	member, err := s.repo.Create(ctx, &models.Member{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         email,
		PhoneNumber:   in.PhoneNumber,
		PasswordHash:  hash,
		Role:          role,
		Gender:        in.Gender,
		TermsAccepted: in.TermsAccepted,
		IsActive:      true,
	})
	if err != nil {
		// the unique indexes backstop the pre-check against racing writers
		if errors.Is(err, common.ErrDuplicate) {
			return nil, "", common.ErrDuplicate
		}
		return nil, "", fmt.Errorf("creating member: %w", err)
	}

	token, err := s.issueSessionToken(member)
	if err != nil {
		return nil, "", fmt.Errorf("%w: signing session token: %v", common.ErrInternal, err)
	}

	member.PasswordHash = ""
	return member, token, nil
}

// Login verifies credentials via the two-factor lookup (email AND phone
// must match one account), records the login time, and mints a session
// token. The unknown-account and wrong-password outcomes share one error
// value; the miss path still burns a hash verification so the two take
// comparable time.
func (s *MemberService) Login(ctx context.Context, email, phone, password string) (*models.Member, string, error) {
	if email == "" || phone == "" || password == "" {
		return nil, "", fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}

	member, err := s.repo.FindByEmailAndPhone(ctx, strings.ToLower(strings.TrimSpace(email)), phone)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.BurnVerify(password)
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: looking up member: %v", common.ErrInternal, err)
	}

	if !member.IsActive {
		return nil, "", common.ErrAccountDisabled
	}

	if !auth.VerifyPassword(password, member.PasswordHash) {
		return nil, "", common.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.SetLastLogin(ctx, member.ID, now); err != nil {
		return nil, "", fmt.Errorf("%w: recording last login: %v", common.ErrInternal, err)
	}
	member.LastLogin = &now

	token, err := s.issueSessionToken(member)
	if err != nil {
		return nil, "", fmt.Errorf("%w: signing session token: %v", common.ErrInternal, err)
	}

	member.PasswordHash = ""
	return member, token, nil
}

// GetByID returns one member without its password hash.
func (s *MemberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	return s.repo.FindByID(ctx, id)
}

// ProfileUpdateInput is the self-service update. The type is the
// allow-list: there is deliberately no way to express a role or active-flag
// change here, so a payload carrying them cannot escalate.
type ProfileUpdateInput struct {
	FirstName       *string
	LastName        *string
	Email           *string
	PhoneNumber     *string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile applies a member's own edits. A password change requires
// the current password to verify first.
func (s *MemberService) UpdateProfile(ctx context.Context, id string, in ProfileUpdateInput) (*models.Member, error) {
	upd := members.Update{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		upd.Email = &email
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, fmt.Errorf("%w: current password is required", common.ErrValidation)
		}
		if err := auth.ValidatePassword(in.NewPassword); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}

		current, err := s.repo.FindByIDWithHash(ctx, id)
		if err != nil {
			return nil, err
		}
		if !auth.VerifyPassword(in.CurrentPassword, current.PasswordHash) {
			return nil, fmt.Errorf("%w: current password is incorrect", common.ErrValidation)
		}

		hash, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
		}
		upd.PasswordHash = &hash
	}

	return s.repo.Update(ctx, id, upd)
}

// SetAvatarKey records the object-storage key of the member's profile
// image.
func (s *MemberService) SetAvatarKey(ctx context.Context, id, key string) (*models.Member, error) {
	return s.repo.Update(ctx, id, members.Update{AvatarKey: &key})
}

// AdminCreateInput is the admin member-creation request. Terms are implied
// accepted, matching the original administrative flow.
type AdminCreateInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
	Gender      string
}

// AdminCreate creates a client account on behalf of an admin.
func (s *MemberService) AdminCreate(ctx context.Context, in AdminCreateInput) (*models.Member, error) {
	member, _, err := s.Register(ctx, RegisterInput{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		Password:      in.Password,
		Gender:        in.Gender,
		TermsAccepted: true,
	})
	return member, err
}

// AdminUpdateInput is the administrative partial update. Unlike the
// self-service path it may change role, active flag, and password.
type AdminUpdateInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Gender      *string
	Password    *string
	Role        *models.Role
	IsActive    *bool
}

// AdminUpdate applies an administrative update to any account.
func (s *MemberService) AdminUpdate(ctx context.Context, id string, in AdminUpdateInput) (*models.Member, error) {
	if in.Role != nil && !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, *in.Role)
	}
	if in.Gender != nil && !models.ValidGender(*in.Gender) {
		return nil, fmt.Errorf("%w: unknown gender %q", common.ErrValidation, *in.Gender)
	}

	upd := members.Update{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Gender:      in.Gender,
		Role:        in.Role,
		IsActive:    in.IsActive,
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		upd.Email = &email
	}
	if in.Password != nil {
		if err := auth.ValidatePassword(*in.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
		}
		upd.PasswordHash = &hash
	}

	return s.repo.Update(ctx, id, upd)
}

// Delete removes an account permanently. There is no soft delete.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all members, newest first.
func (s *MemberService) List(ctx context.Context) ([]*models.Member, error) {
	return s.repo.List(ctx)
}

// Stats computes the dashboard aggregates.
func (s *MemberService) Stats(ctx context.Context) (*members.Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *MemberService) issueSessionToken(m *models.Member) (string, error) {
	return auth.GenerateToken(m.ID, m.Role, s.jwtSecret, s.sessionValidity)
}
