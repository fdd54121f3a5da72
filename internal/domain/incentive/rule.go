// Package incentive calcula el incentivo mensual (comisión) a partir de las ventas.
package incentive

import (
	"github.com/shopspring/decimal"

	"github.com/festal/festal-backend/internal/domain/entity"
)

// DefaultRate tasa base: 10 % de las ventas (500.000 → 50.000).
var DefaultRate = decimal.NewFromFloat(0.10)

// Rule regla de comisión por departamento y rol (servicio de dominio).
// Prioridad: rol > departamento > tasa por defecto.
type Rule struct {
	defaultRate     decimal.Decimal
	departmentRates map[string]decimal.Decimal
	roleRates       map[string]decimal.Decimal
}

// NewRule construye la regla. Las claves de departamento se normalizan.
func NewRule(defaultRate decimal.Decimal, departmentRates, roleRates map[string]decimal.Decimal) *Rule {
	deps := make(map[string]decimal.Decimal, len(departmentRates))
	for k, v := range departmentRates {
		deps[entity.NormalizeDepartment(k)] = v
	}
	roles := make(map[string]decimal.Decimal, len(roleRates))
	for k, v := range roleRates {
		roles[k] = v
	}
	return &Rule{defaultRate: defaultRate, departmentRates: deps, roleRates: roles}
}

// Rate tasa aplicable a un miembro.
func (r *Rule) Rate(department, role string) decimal.Decimal {
	if rate, ok := r.roleRates[role]; ok {
		return rate
	}
	if rate, ok := r.departmentRates[entity.NormalizeDepartment(department)]; ok {
		return rate
	}
	return r.defaultRate
}

// Compute Incentivo = round(ventas × tasa) redondeado a unidades de moneda (yen).
func (r *Rule) Compute(department, role string, salesAmount decimal.Decimal) decimal.Decimal {
	if salesAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return salesAmount.Mul(r.Rate(department, role)).Round(0)
}
