package repository

import (
	"context"
	"time"

	"github.com/festal/festal-backend/internal/domain/entity"
)

// SalesFilter criterios de búsqueda de ventas. DeliveryFrom es inclusivo, DeliveryTo exclusivo.
type SalesFilter struct {
	Department   string
	OwnerID      string
	Status       string
	DeliveryFrom *time.Time
	DeliveryTo   *time.Time
	Page
}

// SalesRecordRepository puerto de persistencia para SalesRecord.
type SalesRecordRepository interface {
	Create(ctx context.Context, rec *entity.SalesRecord) error
	GetByID(ctx context.Context, id string) (*entity.SalesRecord, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SalesRecord, error)
	Update(ctx context.Context, rec *entity.SalesRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f SalesFilter) ([]*entity.SalesRecord, error)
	// Each recorre los registros uno a uno sin materializar el listado completo.
	// fn no debe usar la misma transacción mientras el cursor está abierto.
	Each(ctx context.Context, f SalesFilter, fn func(*entity.SalesRecord) error) error
	CountByOwner(ctx context.Context, userID string) (int, error)
}
