package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
	"github.com/festal/festal-backend/pkg/password"
)

// MinAdminPasswordLength largo mínimo de la contraseña inicial del administrador.
const MinAdminPasswordLength = 8

// AdminSeed datos del administrador inicial.
type AdminSeed struct {
	Username   string
	Email      string
	Department string
	Password   string
}

// EnsureAdmin crea el administrador si no existe. Si ya existe le restablece la
// contraseña y el rol admin. Devuelve true cuando lo creó.
func EnsureAdmin(ctx context.Context, tx repository.TxRunner, hasher *password.Hasher, seed AdminSeed) (bool, error) {
	seed.Username = strings.TrimSpace(seed.Username)
	if seed.Username == "" {
		return false, domain.NewValidationError("username", "必須項目です")
	}
	if len(seed.Password) < MinAdminPasswordLength {
		return false, domain.NewValidationError("password", "8文字以上で入力してください")
	}
	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, err
	}

	created := false
	err = tx.Run(ctx, func(r repository.Repos) error {
		now := time.Now().UTC()
		user, err := r.Users.GetByUsername(ctx, seed.Username)
		if err != nil {
			return err
		}
		if user != nil {
			user.PasswordHash = hash
			user.Role = entity.RoleAdmin
			user.UpdatedAt = now
			return r.Users.Update(ctx, user)
		}
		created = true
		return r.Users.Create(ctx, &entity.User{
			ID:           uuid.New().String(),
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: hash,
			Role:         entity.RoleAdmin,
			Department:   entity.NormalizeDepartment(seed.Department),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
