package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un proyecto de venta.
const (
	SalesStatusPlanned    = "planned"
	SalesStatusInProgress = "in_progress"
	SalesStatusCompleted  = "completed"
	SalesStatusCancelled  = "cancelled"
)

// SalesRecord registro de venta de un proyecto.
// Invariante: Profit == Amount - Cost (se recalcula siempre con RecomputeProfit).
type SalesRecord struct {
	ID           string
	ProjectName  string
	CustomerName string
	Amount       decimal.Decimal
	Cost         decimal.Decimal
	Profit       decimal.Decimal
	DeliveryDate time.Time
	Status       string
	Department   string
	OwnerID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecomputeProfit fija Profit a partir de Amount y Cost.
func (s *SalesRecord) RecomputeProfit() {
	s.Profit = s.Amount.Sub(s.Cost)
}

// IsValidSalesStatus indica si el estado pertenece al catálogo.
func IsValidSalesStatus(status string) bool {
	switch status {
	case SalesStatusPlanned, SalesStatusInProgress, SalesStatusCompleted, SalesStatusCancelled:
		return true
	}
	return false
}
