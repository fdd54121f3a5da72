package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePerformanceRequest body para POST /performance. El incentivo se deriva.
type CreatePerformanceRequest struct {
	UserID      string          `json:"user_id"`
	Month       string          `json:"month"` // YYYY-MM
	SalesAmount decimal.Decimal `json:"sales_amount"`
}

// UpdatePerformanceRequest actualización parcial.
type UpdatePerformanceRequest struct {
	Month       *string          `json:"month"`
	SalesAmount *decimal.Decimal `json:"sales_amount"`
}

// PerformanceListRequest filtros de GET /performance.
type PerformanceListRequest struct {
	Department string `query:"department"`
	UserID     string `query:"user_id"`
	Month      string `query:"month"`
	PageRequest
}

// PerformanceResponse salida de un registro de rendimiento.
type PerformanceResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Username        string          `json:"username"`
	Month           string          `json:"month"`
	SalesAmount     decimal.Decimal `json:"sales_amount"`
	IncentiveAmount decimal.Decimal `json:"incentive_amount"`
	Department      string          `json:"department"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PerformanceListResponse lista paginada de registros de rendimiento.
type PerformanceListResponse struct {
	Items []PerformanceResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
