package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/festal/festal-backend/internal/domain/entity"
)

func TestNormalizeDepartment_AnchoMedioYEspacios(t *testing.T) {
	assert.Equal(t, "コンサル事業部", entity.NormalizeDepartment("  ｺﾝｻﾙ事業部 "))
	assert.Equal(t, "Sales 1", entity.NormalizeDepartment("Ｓａｌｅｓ　１"))
}

func TestMonth_ParseYRango(t *testing.T) {
	m, err := entity.ParseMonth("2024-01")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01", m.String())

	start, end := m.Range()
	assert.Equal(t, "2024-01-01", start.Format(entity.DateLayout))
	assert.Equal(t, "2024-02-01", end.Format(entity.DateLayout))
	assert.True(t, m.Contains(start))
	assert.False(t, m.Contains(end))

	_, err = entity.ParseMonth("2024-13")
	assert.Error(t, err)
	_, err = entity.ParseMonth("enero")
	assert.Error(t, err)
}

func TestBillingTransitions(t *testing.T) {
	assert.True(t, entity.CanTransitionPayment(entity.PaymentStatusUnpaid, entity.PaymentStatusPartial))
	assert.True(t, entity.CanTransitionPayment(entity.PaymentStatusPartial, entity.PaymentStatusPaid))
	assert.False(t, entity.CanTransitionPayment(entity.PaymentStatusUnpaid, entity.PaymentStatusPaid))
	assert.False(t, entity.CanTransitionPayment(entity.PaymentStatusPaid, entity.PaymentStatusPartial))

	assert.True(t, entity.CanTransitionStatus(entity.BillingStatusDraft, entity.BillingStatusIssued))
	assert.True(t, entity.CanTransitionStatus(entity.BillingStatusIssued, entity.BillingStatusSent))
	assert.False(t, entity.CanTransitionStatus(entity.BillingStatusDraft, entity.BillingStatusSent))
	assert.False(t, entity.CanTransitionStatus(entity.BillingStatusCancelled, entity.BillingStatusIssued))
	assert.False(t, entity.CanTransitionStatus(entity.BillingStatusSent, entity.BillingStatusIssued))
}

func TestInvoiceNumberFormat(t *testing.T) {
	assert.True(t, entity.IsValidInvoiceNumber("INV-2024-001"))
	assert.True(t, entity.IsValidInvoiceNumber("INV-2024-1024"))
	assert.False(t, entity.IsValidInvoiceNumber("INV-24-001"))
	assert.False(t, entity.IsValidInvoiceNumber("inv-2024-001"))
	assert.False(t, entity.IsValidInvoiceNumber("INV-2024-01"))
}
