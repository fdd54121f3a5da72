package repository

import (
	"context"

	"github.com/festal/festal-backend/internal/domain/entity"
)

// UserFilter criterios de listado de usuarios.
type UserFilter struct {
	Department string
	Role       string
	Page
}

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID / GetByUsername devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetForUpdate(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}
