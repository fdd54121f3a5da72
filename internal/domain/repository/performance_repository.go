package repository

import (
	"context"

	"github.com/festal/festal-backend/internal/domain/entity"
)

// PerformanceFilter criterios de búsqueda de rendimiento. Month nil = todos los meses.
type PerformanceFilter struct {
	Department string
	UserID     string
	Month      *entity.Month
	Page
}

// PerformanceRecordRepository puerto de persistencia para PerformanceRecord.
type PerformanceRecordRepository interface {
	Create(ctx context.Context, rec *entity.PerformanceRecord) error
	GetByID(ctx context.Context, id string) (*entity.PerformanceRecord, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PerformanceRecord, error)
	// GetByUserAndMonth soporta la unicidad (user, month); (nil, nil) si no existe.
	GetByUserAndMonth(ctx context.Context, userID string, month entity.Month) (*entity.PerformanceRecord, error)
	Update(ctx context.Context, rec *entity.PerformanceRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f PerformanceFilter) ([]*entity.PerformanceRecord, error)
	Each(ctx context.Context, f PerformanceFilter, fn func(*entity.PerformanceRecord) error) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
