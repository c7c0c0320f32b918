package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irezaei/memberhub/internal/common"
	"github.com/irezaei/memberhub/internal/server/auth"
	"github.com/irezaei/memberhub/internal/server/config"
	"github.com/irezaei/memberhub/internal/server/models"
	"github.com/irezaei/memberhub/internal/server/repositories/members"
)

// --- fakes ---

type fakeMembersRepo struct {
	created *models.Member

	existsOut bool
	existsErr error

	findOut *models.Member
	findErr error

	updateIn  members.Update
	updateOut *models.Member
	updateErr error

	lastLoginID  string
	lastLoginAt  time.Time
	lastLoginErr error

	deleteErr error
	listOut   []*models.Member
	statsOut  *members.Stats
}

func (f *fakeMembersRepo) Create(_ context.Context, m *models.Member) (*models.Member, error) {
	m.ID = "64f0c2a9b1d2e3f4a5b6c7d8"
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	f.created = m
	return m, nil
}

func (f *fakeMembersRepo) FindByID(context.Context, string) (*models.Member, error) {
	return f.findOut, f.findErr
}

func (f *fakeMembersRepo) FindByEmailAndPhone(context.Context, string, string) (*models.Member, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeMembersRepo) FindByIDWithHash(context.Context, string) (*models.Member, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeMembersRepo) FindByPhone(context.Context, string) (*models.Member, error) {
	return f.findOut, f.findErr
}

func (f *fakeMembersRepo) ExistsByEmailOrPhone(context.Context, string, string) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeMembersRepo) List(context.Context) ([]*models.Member, error) {
	return f.listOut, nil
}

func (f *fakeMembersRepo) Update(_ context.Context, _ string, upd members.Update) (*models.Member, error) {
	f.updateIn = upd
	return f.updateOut, f.updateErr
}

func (f *fakeMembersRepo) Delete(context.Context, string) error { return f.deleteErr }

func (f *fakeMembersRepo) SetLastLogin(_ context.Context, id string, at time.Time) error {
	f.lastLoginID = id
	f.lastLoginAt = at
	return f.lastLoginErr
}

func (f *fakeMembersRepo) Stats(context.Context) (*members.Stats, error) {
	return f.statsOut, nil
}

func newMemberService(repo members.Repository) *MemberService {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return NewMemberService(repo, cfg)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName:     "Sara",
		LastName:      "Karimi",
		Email:         "A@X.com",
		PhoneNumber:   "09120000000",
		Password:      "secret-123",
		Gender:        "female",
		TermsAccepted: true,
	}
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	repo := &fakeMembersRepo{}
	svc := newMemberService(repo)

	member, token, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", member.Email, "email must be normalized to lowercase")
	assert.Equal(t, models.RoleClient, member.Role)
	assert.True(t, member.IsActive)
	assert.Empty(t, member.PasswordHash, "returned member must not carry the hash")

	require.NotEmpty(t, repo.created.PasswordHash)
	assert.NotEqual(t, "secret-123", repo.created.PasswordHash)
	assert.True(t, auth.VerifyPassword("secret-123", repo.created.PasswordHash))

	uid, role, err := auth.ParseToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, member.ID, uid)
	assert.Equal(t, models.RoleClient, role)
}

func TestRegister_AdminBootstrapEmail(t *testing.T) {
	repo := &fakeMembersRepo{}
	svc := newMemberService(repo)

	in := validRegisterInput()
	in.Email = "Admin@Example.com"

	member, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, member.Role)
}

func TestRegister_Duplicate(t *testing.T) {
	repo := &fakeMembersRepo{existsOut: true}
	svc := newMemberService(repo)

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	require.True(t, errors.Is(err, common.ErrDuplicate), "got %v", err)
}

func TestRegister_Validation(t *testing.T) {
	svc := newMemberService(&fakeMembersRepo{})

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"terms not accepted", func(in *RegisterInput) { in.TermsAccepted = false }},
		{"missing gender", func(in *RegisterInput) { in.Gender = "" }},
		{"unknown gender", func(in *RegisterInput) { in.Gender = "dragon" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing phone", func(in *RegisterInput) { in.PhoneNumber = "" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegisterInput()
			tt.mutate(&in)
			_, _, err := svc.Register(context.Background(), in)
			require.True(t, errors.Is(err, common.ErrValidation), "got %v", err)
		})
	}
}

// --- Login ---

func activeMember(t *testing.T, password string) *models.Member {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.Member{
		ID:           "64f0c2a9b1d2e3f4a5b6c7d8",
		FirstName:    "Sara",
		LastName:     "Karimi",
		Email:        "a@x.com",
		PhoneNumber:  "09120000000",
		PasswordHash: hash,
		Role:         models.RoleClient,
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeMembersRepo{findOut: activeMember(t, "secret-123")}
	svc := newMemberService(repo)

	member, token, err := svc.Login(context.Background(), "A@X.com", "09120000000", "secret-123")
	require.NoError(t, err)

	assert.Empty(t, member.PasswordHash)
	require.NotNil(t, member.LastLogin)
	assert.Equal(t, member.ID, repo.lastLoginID, "last login must be recorded")

	uid, role, err := auth.ParseToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, member.ID, uid)
	assert.Equal(t, models.RoleClient, role)
}

func TestLogin_UnknownAccount(t *testing.T) {
	repo := &fakeMembersRepo{findErr: common.ErrNotFound}
	svc := newMemberService(repo)

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "09120000001", "whatever-1")
	require.True(t, errors.Is(err, common.ErrInvalidCredentials), "got %v", err)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &fakeMembersRepo{findOut: activeMember(t, "secret-123")}
	svc := newMemberService(repo)

	_, _, err := svc.Login(context.Background(), "a@x.com", "09120000000", "wrong-password")
	require.True(t, errors.Is(err, common.ErrInvalidCredentials),
		"wrong password must be indistinguishable from unknown account, got %v", err)
}

func TestLogin_DisabledAccount(t *testing.T) {
	m := activeMember(t, "secret-123")
	m.IsActive = false
	repo := &fakeMembersRepo{findOut: m}
	svc := newMemberService(repo)

	_, _, err := svc.Login(context.Background(), "a@x.com", "09120000000", "secret-123")
	require.True(t, errors.Is(err, common.ErrAccountDisabled), "got %v", err)
}

func TestLogin_RepoFailureKeepsCause(t *testing.T) {
	repo := &fakeMembersRepo{
		findOut:      activeMember(t, "secret-123"),
		lastLoginErr: errors.New("connection reset"),
	}
	svc := newMemberService(repo)

	_, _, err := svc.Login(context.Background(), "a@x.com", "09120000000", "secret-123")
	require.True(t, errors.Is(err, common.ErrInternal), "got %v", err)
	assert.Contains(t, err.Error(), "connection reset", "underlying cause must survive for the server log")
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newMemberService(&fakeMembersRepo{})

	_, _, err := svc.Login(context.Background(), "a@x.com", "", "secret-123")
	require.True(t, errors.Is(err, common.ErrValidation), "got %v", err)
}

// --- UpdateProfile ---

func strptr(s string) *string { return &s }

func TestUpdateProfile_AllowedFields(t *testing.T) {
	repo := &fakeMembersRepo{updateOut: &models.Member{ID: "64f0c2a9b1d2e3f4a5b6c7d8"}}
	svc := newMemberService(repo)

	_, err := svc.UpdateProfile(context.Background(), "64f0c2a9b1d2e3f4a5b6c7d8", ProfileUpdateInput{
		FirstName: strptr("Nina"),
		Email:     strptr("New@X.com"),
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updateIn.FirstName)
	assert.Equal(t, "Nina", *repo.updateIn.FirstName)
	require.NotNil(t, repo.updateIn.Email)
	assert.Equal(t, "new@x.com", *repo.updateIn.Email)

	// the self-service path must be structurally unable to touch these
	assert.Nil(t, repo.updateIn.Role)
	assert.Nil(t, repo.updateIn.IsActive)
	assert.Nil(t, repo.updateIn.PasswordHash)
}

func TestUpdateProfile_PasswordChange(t *testing.T) {
	repo := &fakeMembersRepo{
		findOut:   activeMember(t, "old-secret-1"),
		updateOut: &models.Member{ID: "64f0c2a9b1d2e3f4a5b6c7d8"},
	}
	svc := newMemberService(repo)

	_, err := svc.UpdateProfile(context.Background(), "64f0c2a9b1d2e3f4a5b6c7d8", ProfileUpdateInput{
		CurrentPassword: "old-secret-1",
		NewPassword:     "new-secret-1",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updateIn.PasswordHash)
	assert.True(t, auth.VerifyPassword("new-secret-1", *repo.updateIn.PasswordHash))
}

func TestUpdateProfile_PasswordChangeRequiresCurrent(t *testing.T) {
	svc := newMemberService(&fakeMembersRepo{})

	_, err := svc.UpdateProfile(context.Background(), "64f0c2a9b1d2e3f4a5b6c7d8", ProfileUpdateInput{
		NewPassword: "new-secret-1",
	})
	require.True(t, errors.Is(err, common.ErrValidation), "got %v", err)
}

func TestUpdateProfile_WrongCurrentPassword(t *testing.T) {
	repo := &fakeMembersRepo{findOut: activeMember(t, "old-secret-1")}
	svc := newMemberService(repo)

	_, err := svc.UpdateProfile(context.Background(), "64f0c2a9b1d2e3f4a5b6c7d8", ProfileUpdateInput{
		CurrentPassword: "not-the-secret",
		NewPassword:     "new-secret-1",
	})
	require.True(t, errors.Is(err, common.ErrValidation), "got %v", err)
}

// --- Admin operations ---

func TestAdminUpdate_MayChangeRoleAndActive(t *testing.T) {
	repo := &fakeMembersRepo{updateOut: &models.Member{ID: "64f0c2a9b1d2e3f4a5b6c7d8"}}
	svc := newMemberService(repo)

	role := models.RoleAdmin
	active := false
	_, err := svc.AdminUpdate(context.Background(), "64f0c2a9b1d2e3f4a5b6c7d8", AdminUpdateInput{
		Role:     &role,
		IsActive: &active,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updateIn.Role)
	assert.Equal(t, models.RoleAdmin, *repo.updateIn.Role)
	require.NotNil(t, repo.updateIn.IsActive)
	assert.False(t, *repo.updateIn.IsActive)
}

func TestAdminUpdate_RejectsUnknownRole(t *testing.T) {
	svc := newMemberService(&fakeMembersRepo{})

	bogus := models.Role("superuser")
	_, err := svc.AdminUpdate(context.Background(), "64f0c2a9b1d2e3f4a5b6c7d8", AdminUpdateInput{Role: &bogus})
	require.True(t, errors.Is(err, common.ErrValidation), "got %v", err)
}

func TestAdminUpdate_RehashesPassword(t *testing.T) {
	repo := &fakeMembersRepo{updateOut: &models.Member{ID: "64f0c2a9b1d2e3f4a5b6c7d8"}}
	svc := newMemberService(repo)

	_, err := svc.AdminUpdate(context.Background(), "64f0c2a9b1d2e3f4a5b6c7d8", AdminUpdateInput{
		Password: strptr("reset-secret-1"),
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updateIn.PasswordHash)
	assert.NotEqual(t, "reset-secret-1", *repo.updateIn.PasswordHash)
	assert.True(t, auth.VerifyPassword("reset-secret-1", *repo.updateIn.PasswordHash))
}

func TestAdminCreate_ImpliesTerms(t *testing.T) {
	repo := &fakeMembersRepo{}
	svc := newMemberService(repo)

	member, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		FirstName:   "Omid",
		LastName:    "Nasiri",
		Email:       "o@x.com",
		PhoneNumber: "09120000002",
		Password:    "secret-123",
		Gender:      "male",
	})
	require.NoError(t, err)
	assert.True(t, member.TermsAccepted)
	assert.Equal(t, models.RoleClient, member.Role)
}
