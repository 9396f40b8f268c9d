package service

import (
	"context"
	"strings"
	"testing"

	"depotpos/internal/config"
	"depotpos/internal/dto"
	"depotpos/internal/model"
	"depotpos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(ctx context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func buildAuthSvc() (AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "unit-test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		TenantID:     uuid.New(),
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(t, repo, "seller@shop.test", "secret123", "seller")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "seller@shop.test", Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, u.ID.String(), resp.User.ID)
	assert.Equal(t, "seller", resp.User.Role)
	// JWT has three dot-separated segments
	assert.Len(t, strings.Split(resp.AccessToken, "."), 3)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(t, repo, "seller@shop.test", "secret123", "seller")

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "seller@shop.test", Password: "wrong",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(t, repo, "gone@shop.test", "secret123", "seller")
	u.Active = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "gone@shop.test", Password: "secret123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestRefresh_RotatesTokens(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(t, repo, "manager@shop.test", "secret123", "manager")

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "manager@shop.test", Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.Refresh(context.Background(), "not.a.token")
	require.Error(t, err)
}

func TestRefresh_RejectsDeactivatedUser(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(t, repo, "fired@shop.test", "secret123", "seller")

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "fired@shop.test", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := buildAuthSvc()
	tenantID := uuid.New()

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "new@shop.test",
		Name:     "New Seller",
		Password: "longenough",
		Role:     "seller",
		TenantID: tenantID.String(),
	})
	require.NoError(t, err)

	uid, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	stored := repo.users[uid]
	require.NotNil(t, stored)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestUpdateUser_ChangesRoleOnly(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(t, repo, "promote@shop.test", "secret123", "seller")
	originalHash := u.PasswordHash

	resp, err := svc.UpdateUser(context.Background(), u.TenantID, u.ID, dto.UpdateUserRequest{Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "manager", resp.Role)
	assert.Equal(t, originalHash, repo.users[u.ID].PasswordHash, "an empty password must not be rehashed")
}

func TestUpdateUser_ForeignTenantRejected(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(t, repo, "other@shop.test", "secret123", "seller")

	_, err := svc.UpdateUser(context.Background(), uuid.New(), u.ID, dto.UpdateUserRequest{Role: "admin"})
	assert.ErrorIs(t, err, ErrTenantMismatch)
	assert.Equal(t, "seller", repo.users[u.ID].Role)

	err = svc.DeactivateUser(context.Background(), uuid.New(), u.ID)
	assert.ErrorIs(t, err, ErrTenantMismatch)
	assert.True(t, repo.users[u.ID].Active)
}
