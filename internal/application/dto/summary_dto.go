package dto

import "github.com/shopspring/decimal"

// MonthlySalesSummary GET /sales/summary/monthly.
type MonthlySalesSummary struct {
	Month        string          `json:"month"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	ProjectCount int             `json:"project_count"`
}

// MonthlyBillingSummary GET /billing/summary/monthly.
type MonthlyBillingSummary struct {
	Month        string          `json:"month"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	IssuedCount  int             `json:"issued_count"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
}

// DepartmentPerformance fila de GET /performance/summary/department.
type DepartmentPerformance struct {
	Department     string          `json:"department"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalIncentive decimal.Decimal `json:"total_incentive"`
	MemberCount    int             `json:"member_count"`
	AverageSales   decimal.Decimal `json:"average_sales"`
}

// DepartmentPerformanceResponse resumen por departamento ordenado por nombre. La secuencia
// ordenada va en items, igual que en los listados; month se omite si no se filtró.
type DepartmentPerformanceResponse struct {
	Month string                  `json:"month,omitempty"`
	Items []DepartmentPerformance `json:"items"`
}
