package repository

import (
	"context"
	"time"

	"github.com/festal/festal-backend/internal/domain/entity"
)

// BillingFilter criterios de búsqueda de facturas. IssueFrom inclusivo, IssueTo exclusivo.
type BillingFilter struct {
	Status         string
	PaymentStatus  string
	ApprovalStatus string
	CustomerName   string
	IssueFrom      *time.Time
	IssueTo        *time.Time
	Page
}

// BillingRecordRepository puerto de persistencia para BillingRecord.
type BillingRecordRepository interface {
	Create(ctx context.Context, rec *entity.BillingRecord) error
	GetByID(ctx context.Context, id string) (*entity.BillingRecord, error)
	GetForUpdate(ctx context.Context, id string) (*entity.BillingRecord, error)
	GetByInvoiceNumber(ctx context.Context, number string) (*entity.BillingRecord, error)
	Update(ctx context.Context, rec *entity.BillingRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f BillingFilter) ([]*entity.BillingRecord, error)
	Each(ctx context.Context, f BillingFilter, fn func(*entity.BillingRecord) error) error
}
