// Package analytics contiene el motor de agregación: resúmenes mensuales de
// ventas y facturación y el resumen de rendimiento por departamento.
//
// Cada resumen se calcula dentro de una única transacción de solo lectura, de
// modo que un registro creado en paralelo entra completo o no entra.
package analytics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/application/usecase"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// SummaryUseCase agregaciones de solo lectura.
type SummaryUseCase struct {
	tx   repository.TxRunner
	gate *access.Gate
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(tx repository.TxRunner, gate *access.Gate) *SummaryUseCase {
	return &SummaryUseCase{tx: tx, gate: gate}
}

// MonthlySales suma las ventas cuya delivery_date cae en el mes.
// total_profit se recalcula como total_amount - total_cost.
func (uc *SummaryUseCase) MonthlySales(ctx context.Context, id entity.Identity, month string) (*dto.MonthlySalesSummary, error) {
	grant, err := uc.gate.Check(id, access.ResourceSales, access.ActionSummary)
	if err != nil {
		return nil, err
	}
	department, err := usecase.ScopedDepartment(grant, "")
	if err != nil {
		return nil, err
	}
	m, err := usecase.ParseMonth("month", month)
	if err != nil {
		return nil, err
	}
	from, to := m.Range()
	filter := repository.SalesFilter{Department: department, DeliveryFrom: &from, DeliveryTo: &to}

	out := &dto.MonthlySalesSummary{Month: m.String(), TotalAmount: decimal.Zero, TotalCost: decimal.Zero}
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		return r.Sales.Each(ctx, filter, func(s *entity.SalesRecord) error {
			out.TotalAmount = out.TotalAmount.Add(s.Amount)
			out.TotalCost = out.TotalCost.Add(s.Cost)
			out.ProjectCount++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	out.TotalProfit = out.TotalAmount.Sub(out.TotalCost)
	return out, nil
}

// MonthlyBilling agrupa las facturas emitidas en el mes por estado de pago.
// Las anuladas no cuentan; partial suma como pendiente.
func (uc *SummaryUseCase) MonthlyBilling(ctx context.Context, id entity.Identity, month string) (*dto.MonthlyBillingSummary, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionSummary); err != nil {
		return nil, err
	}
	m, err := usecase.ParseMonth("month", month)
	if err != nil {
		return nil, err
	}
	from, to := m.Range()
	filter := repository.BillingFilter{IssueFrom: &from, IssueTo: &to}

	out := &dto.MonthlyBillingSummary{
		Month:        m.String(),
		TotalAmount:  decimal.Zero,
		PaidAmount:   decimal.Zero,
		UnpaidAmount: decimal.Zero,
	}
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		return r.Billing.Each(ctx, filter, func(b *entity.BillingRecord) error {
			if b.Status == entity.BillingStatusCancelled {
				return nil
			}
			out.TotalAmount = out.TotalAmount.Add(b.Amount)
			if b.Status == entity.BillingStatusIssued || b.Status == entity.BillingStatusSent {
				out.IssuedCount++
			}
			if b.PaymentStatus == entity.PaymentStatusPaid {
				out.PaidAmount = out.PaidAmount.Add(b.Amount)
			} else {
				out.UnpaidAmount = out.UnpaidAmount.Add(b.Amount)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type departmentTotals struct {
	sales     decimal.Decimal
	incentive decimal.Decimal
	members   map[string]struct{}
}

// DepartmentPerformance agrupa el rendimiento por departamento, ordenado por nombre.
// member_count cuenta usuarios distintos, no registros. month vacío = todos los meses.
func (uc *SummaryUseCase) DepartmentPerformance(ctx context.Context, id entity.Identity, month string) (*dto.DepartmentPerformanceResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourcePerformance, access.ActionSummary)
	if err != nil {
		return nil, err
	}
	department, err := usecase.ScopedDepartment(grant, "")
	if err != nil {
		return nil, err
	}
	m, err := usecase.ParseOptionalMonth("month", month)
	if err != nil {
		return nil, err
	}
	filter := repository.PerformanceFilter{Department: department, Month: m}

	groups := map[string]*departmentTotals{}
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		return r.Performance.Each(ctx, filter, func(p *entity.PerformanceRecord) error {
			g, ok := groups[p.Department]
			if !ok {
				g = &departmentTotals{sales: decimal.Zero, incentive: decimal.Zero, members: map[string]struct{}{}}
				groups[p.Department] = g
			}
			g.sales = g.sales.Add(p.SalesAmount)
			g.incentive = g.incentive.Add(p.IncentiveAmount)
			g.members[p.UserID] = struct{}{}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	out := &dto.DepartmentPerformanceResponse{Items: make([]dto.DepartmentPerformance, 0, len(groups))}
	if m != nil {
		out.Month = m.String()
	}
	for name, g := range groups {
		count := len(g.members)
		out.Items = append(out.Items, dto.DepartmentPerformance{
			Department:     name,
			TotalSales:     g.sales,
			TotalIncentive: g.incentive,
			MemberCount:    count,
			AverageSales:   g.sales.Div(decimal.NewFromInt(int64(count))).Round(2),
		})
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].Department < out.Items[j].Department })
	return out, nil
}
