package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSalesRequest body para POST /sales. Profit no se acepta: se deriva.
// OwnerID vacío = el llamador; Department vacío = el del propietario.
type CreateSalesRequest struct {
	ProjectName  string          `json:"project_name"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Cost         decimal.Decimal `json:"cost"`
	DeliveryDate string          `json:"delivery_date"` // YYYY-MM-DD
	Status       string          `json:"status"`
	Department   string          `json:"department"`
	OwnerID      string          `json:"owner_id"`
}

// UpdateSalesRequest actualización parcial de una venta.
type UpdateSalesRequest struct {
	ProjectName  *string          `json:"project_name"`
	CustomerName *string          `json:"customer_name"`
	Amount       *decimal.Decimal `json:"amount"`
	Cost         *decimal.Decimal `json:"cost"`
	DeliveryDate *string          `json:"delivery_date"`
	Status       *string          `json:"status"`
	Department   *string          `json:"department"`
	OwnerID      *string          `json:"owner_id"`
}

// SalesListRequest filtros de GET /sales.
type SalesListRequest struct {
	Department string `query:"department"`
	Status     string `query:"status"`
	OwnerID    string `query:"owner_id"`
	Month      string `query:"month"` // YYYY-MM sobre delivery_date
	PageRequest
}

// SalesResponse salida de una venta.
type SalesResponse struct {
	ID           string          `json:"id"`
	ProjectName  string          `json:"project_name"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	DeliveryDate string          `json:"delivery_date"`
	Status       string          `json:"status"`
	Department   string          `json:"department"`
	OwnerID      string          `json:"owner_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SalesListResponse lista paginada de ventas.
type SalesListResponse struct {
	Items []SalesResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
