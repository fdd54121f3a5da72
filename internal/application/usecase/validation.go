package usecase

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// ParseDate interpreta YYYY-MM-DD como fecha UTC sin hora.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "日付は YYYY-MM-DD 形式で指定してください")
	}
	return t.UTC(), nil
}

// ParseMonth interpreta YYYY-MM.
func ParseMonth(field, s string) (entity.Month, error) {
	m, err := entity.ParseMonth(strings.TrimSpace(s))
	if err != nil {
		return entity.Month{}, domain.NewValidationError(field, "年月は YYYY-MM 形式で指定してください")
	}
	return m, nil
}

// ParseOptionalMonth devuelve nil si s está vacío.
func ParseOptionalMonth(field, s string) (*entity.Month, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	m, err := ParseMonth(field, s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RequireText exige un texto no vacío de hasta max caracteres.
func RequireText(field, s string, max int) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NewValidationError(field, "必須項目です")
	}
	if max > 0 && len([]rune(s)) > max {
		return domain.NewValidationError(field, "長すぎます")
	}
	return nil
}

// maxAmount es el primer valor que ya no cabe en NUMERIC(18,2).
var maxAmount = decimal.New(1, 16)

// amountFits exige como mucho dos decimales y 16 dígitos enteros.
func amountFits(field string, d decimal.Decimal) error {
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return domain.NewValidationError(field, "小数点以下は2桁までです")
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return domain.NewValidationError(field, "金額が大きすぎます")
	}
	return nil
}

// RequireNonNegative exige un importe ≥ 0 representable en la base.
func RequireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.NewValidationError(field, "0以上の値を指定してください")
	}
	return amountFits(field, d)
}

// RequirePositive exige un importe > 0 representable en la base.
func RequirePositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return domain.NewValidationError(field, "0より大きい値を指定してください")
	}
	return amountFits(field, d)
}

// PageOf traduce la paginación del request al puerto de persistencia.
func PageOf(p dto.PageRequest) repository.Page {
	p.DefaultPage()
	return repository.Page{Limit: p.Limit, Offset: p.Offset}
}

func pageResponse(p repository.Page) dto.PageResponse {
	return dto.PageResponse{Limit: p.Limit, Offset: p.Offset}
}
