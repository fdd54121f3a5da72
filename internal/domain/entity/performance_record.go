package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PerformanceRecord resultado mensual de un usuario. Máximo uno por (UserID, Month).
// IncentiveAmount es derivado de SalesAmount mediante la regla de incentivos.
type PerformanceRecord struct {
	ID              string
	UserID          string
	Username        string // solo lectura, resuelto por JOIN
	Month           Month
	SalesAmount     decimal.Decimal
	IncentiveAmount decimal.Decimal
	Department      string // copiado del usuario al crear
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
