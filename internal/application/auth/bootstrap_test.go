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

func TestEnsureAdmin_CreaYPermiteLogin(t *testing.T) {
	store := memory.New()
	hasher := password.NewHasher(bcrypt.MinCost)
	ctx := context.Background()

	created, err := auth.EnsureAdmin(ctx, store, hasher, auth.AdminSeed{
		Username: "admin", Email: "admin@festal.jp", Department: "管理部", Password: "inicial-123",
	})
	require.NoError(t, err)
	assert.True(t, created)

	uc := auth.NewAuthUseCase(store, auth.NewPasswordVerifier(store, hasher), auth.TokenConfig{Secret: "s", TTL: time.Minute})
	issued, err := uc.Authenticate(ctx, "admin", "inicial-123")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, issued.User.Role)
}

func TestEnsureAdmin_ExistenteRestableceContrasena(t *testing.T) {
	store := memory.New()
	hasher := password.NewHasher(bcrypt.MinCost)
	ctx := context.Background()
	seed := auth.AdminSeed{Username: "admin", Password: "primera-clave"}

	_, err := auth.EnsureAdmin(ctx, store, hasher, seed)
	require.NoError(t, err)
	seed.Password = "segunda-clave"
	created, err := auth.EnsureAdmin(ctx, store, hasher, seed)
	require.NoError(t, err)
	assert.False(t, created)

	_ = store.ReadOnly(ctx, func(r repository.Repos) error {
		users, err := r.Users.List(ctx, repository.UserFilter{})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.NoError(t, hasher.Compare(users[0].PasswordHash, "segunda-clave"))
		return nil
	})
}

func TestEnsureAdmin_ContrasenaCorta(t *testing.T) {
	created, err := auth.EnsureAdmin(context.Background(), memory.New(), password.NewHasher(bcrypt.MinCost),
		auth.AdminSeed{Username: "admin", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, created)
}
