package repository

import (
	"context"
	"time"

	"github.com/festal/festal-backend/internal/domain/entity"
)

// SessionRepository puerto de persistencia para Session. Solo lo usa el caso de uso de auth.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
