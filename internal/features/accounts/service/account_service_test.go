package service

import (
	"context"
	"testing"
	"time"

	"apex-tracker/internal/core/config"
	"apex-tracker/internal/core/kv"
	"apex-tracker/internal/core/validation"
	"apex-tracker/internal/features/accounts/adapters"
	"apex-tracker/internal/features/accounts/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

var (
	adminCfg = config.AdminConfig{
		Username: "admin",
		Password: "apex2025",
		Name:     "Admin User",
		Email:    "admin@apexshipping.com",
	}
	authCfg = config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
)

func newTestService(t *testing.T) (*AccountService, *adapters.KVAccountRepository, *func() time.Time) {
	t.Helper()

	clock := func() time.Time { return fixedNow }
	repo := adapters.NewKVAccountRepository(kv.NewMemoryStore())
	svc := NewAccountService(repo, adminCfg, authCfg,
		WithClock(func() time.Time { return clock() }),
		WithBcryptCost(bcrypt.MinCost),
	)
	return svc, repo, &clock
}

func TestAccountService_SeedIfEmpty(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedIfEmpty(ctx))

	users := svc.ListUsers(ctx)
	require.Len(t, users, 2)
	assert.Equal(t, "user1", users[0].ID)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, "Regular User", users[1].Name)
	assert.Equal(t, domain.RoleUser, users[1].Role)

	cred, err := repo.LoadAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", cred.Username)
	assert.NotEqual(t, "apex2025", cred.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("apex2025")))
}

func TestAccountService_SeedIfEmpty_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedIfEmpty(ctx))
	first, err := repo.LoadAdmin(ctx)
	require.NoError(t, err)

	_, err = svc.AddUser(ctx, domain.User{ID: "user3", Name: "Ops", Email: "ops@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	require.NoError(t, svc.SeedIfEmpty(ctx))

	second, err := repo.LoadAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "stored credential is not rehashed")
	assert.Len(t, svc.ListUsers(ctx), 3)
}

func TestAccountService_SeedIfEmpty_KeepsExistingAdmin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	existing := domain.AdminCredential{Username: "root", PasswordHash: "hash", Name: "Root", Email: "root@example.com"}
	require.NoError(t, repo.SaveAdmin(ctx, existing))

	require.NoError(t, svc.SeedIfEmpty(ctx))

	cred, err := repo.LoadAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, existing, *cred)
}

func TestAccountService_ListUsers_Empty(t *testing.T) {
	svc, _, _ := newTestService(t)

	users := svc.ListUsers(context.Background())
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestAccountService_CreateUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedIfEmpty(ctx))

	user, err := svc.CreateUser(ctx, domain.AddUserRequest{Name: "Dispatch", Email: "dispatch@apexshipping.com", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Regexp(t, `^user-[0-9a-f-]{36}$`, user.ID)
	assert.Equal(t, fixedNow, user.CreatedAt)

	users := svc.ListUsers(ctx)
	require.Len(t, users, 3)
	assert.Equal(t, *user, users[0], "new users are prepended")
}

func TestAccountService_CreateUser_Invalid(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), domain.AddUserRequest{Name: "X", Email: "not-an-email", Role: "owner"})

	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestAccountService_Login(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedIfEmpty(ctx))

	token, err := svc.Login(ctx, "admin", "apex2025")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "Admin User", claims.Name)
	assert.WithinDuration(t, fixedNow.Add(time.Hour), claims.ExpiresAt.Time, 0)
}

func TestAccountService_Login_Invalid(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "apex2025")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "no credential stored yet")

	require.NoError(t, svc.SeedIfEmpty(ctx))

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "Admin", "apex2025")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_VerifyToken(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedIfEmpty(ctx))

	token, err := svc.Login(ctx, "admin", "apex2025")
	require.NoError(t, err)

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewAccountService(nil, adminCfg, config.AuthConfig{JWTSecret: "other", TokenTTL: time.Hour},
			WithClock(func() time.Time { return fixedNow }))
		_, err := other.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("NotAdmin", func(t *testing.T) {
		claims := Claims{
			Role: domain.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user2",
				ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(authCfg.JWTSecret))
		require.NoError(t, err)

		_, err = svc.VerifyToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		*clock = func() time.Time { return fixedNow.Add(2 * time.Hour) }
		t.Cleanup(func() { *clock = func() time.Time { return fixedNow } })

		_, err := svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
