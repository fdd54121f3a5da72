package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/festal/festal-backend/internal/application/auth"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
	"github.com/festal/festal-backend/internal/infrastructure/memory"
	"github.com/festal/festal-backend/pkg/password"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func setup(t *testing.T) (*auth.AuthUseCase, *memory.Store, *clock) {
	t.Helper()
	store := memory.New()
	hasher := password.NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password")
	require.NoError(t, err)
	require.NoError(t, store.Run(context.Background(), func(r repository.Repos) error {
		return r.Users.Create(context.Background(), &entity.User{
			ID: "u-admin", Username: "admin", Email: "admin@festal.jp",
			PasswordHash: hash, Role: entity.RoleAdmin, Department: "管理部",
		})
	}))
	c := &clock{t: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	uc := auth.NewAuthUseCase(store, auth.NewPasswordVerifier(store, hasher), auth.TokenConfig{
		Secret: "test-secret", Issuer: "festal-test", TTL: 30 * time.Minute,
	}).WithClock(c.now)
	return uc, store, c
}

func TestAuthenticate_OK(t *testing.T) {
	uc, _, c := setup(t)
	issued, err := uc.Authenticate(context.Background(), "admin", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, c.t.Add(30*time.Minute), issued.Session.ExpiresAt)

	id, err := uc.Resolve(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", id.Username)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, issued.Session.ID, id.SessionID)
}

func TestAuthenticate_CredencialesInvalidas(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Authenticate(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Authenticate(context.Background(), "nadie", "password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolve_TokenExpirado(t *testing.T) {
	uc, _, c := setup(t)
	issued, err := uc.Authenticate(context.Background(), "admin", "password")
	require.NoError(t, err)

	c.t = c.t.Add(31 * time.Minute)
	_, err = uc.Resolve(context.Background(), issued.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestResolve_TokenBasura(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Resolve(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestInvalidate_Idempotente(t *testing.T) {
	uc, _, _ := setup(t)
	issued, err := uc.Authenticate(context.Background(), "admin", "password")
	require.NoError(t, err)

	require.NoError(t, uc.Invalidate(context.Background(), issued.Token))
	require.NoError(t, uc.Invalidate(context.Background(), issued.Token))

	_, err = uc.Resolve(context.Background(), issued.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestResolve_UsuarioEliminado(t *testing.T) {
	uc, store, _ := setup(t)
	issued, err := uc.Authenticate(context.Background(), "admin", "password")
	require.NoError(t, err)

	require.NoError(t, store.Run(context.Background(), func(r repository.Repos) error {
		return r.Users.Delete(context.Background(), "u-admin")
	}))
	_, err = uc.Resolve(context.Background(), issued.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestPurgeExpired(t *testing.T) {
	uc, _, c := setup(t)
	_, err := uc.Authenticate(context.Background(), "admin", "password")
	require.NoError(t, err)

	n, err := uc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	c.t = c.t.Add(time.Hour)
	n, err = uc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
