package entity

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del documento de cobro.
const (
	BillingStatusDraft     = "draft"
	BillingStatusIssued    = "issued"
	BillingStatusSent      = "sent"
	BillingStatusCancelled = "cancelled"
)

// Estados de pago.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Estados de aprobación. Una factura solo se emite una vez aprobada.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// invoiceNumberPattern formato INV-<año>-<secuencia de 3+ dígitos>, ej. INV-2024-001.
var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{4}-\d{3,}$`)

// BillingRecord factura emitida a un cliente.
type BillingRecord struct {
	ID              string
	InvoiceNumber   string
	CustomerName    string
	Amount          decimal.Decimal
	IssueDate       time.Time
	DueDate         time.Time
	Status          string
	PaymentStatus   string
	SentAt          *time.Time
	ApprovalStatus  string
	ApprovedBy      string // ID del admin que aprobó
	ApprovedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsValidInvoiceNumber valida el formato del número de factura.
func IsValidInvoiceNumber(n string) bool {
	return invoiceNumberPattern.MatchString(n)
}

// IsValidBillingStatus indica si el estado pertenece al catálogo.
func IsValidBillingStatus(s string) bool {
	switch s {
	case BillingStatusDraft, BillingStatusIssued, BillingStatusSent, BillingStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentStatus indica si el estado de pago pertenece al catálogo.
func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// statusNext transiciones permitidas del documento (además de quedarse igual).
var statusNext = map[string][]string{
	BillingStatusDraft:  {BillingStatusIssued, BillingStatusCancelled},
	BillingStatusIssued: {BillingStatusSent, BillingStatusCancelled},
	BillingStatusSent:   {BillingStatusCancelled},
}

// paymentNext el pago solo avanza un paso: unpaid → partial → paid.
var paymentNext = map[string]string{
	PaymentStatusUnpaid:  PaymentStatusPartial,
	PaymentStatusPartial: PaymentStatusPaid,
}

// CanTransitionStatus indica si el documento puede pasar de from a to.
func CanTransitionStatus(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range statusNext[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment indica si el estado de pago puede pasar de from a to.
func CanTransitionPayment(from, to string) bool {
	return from == to || paymentNext[from] == to
}

// Deletable solo borradores y anuladas pueden eliminarse.
func (b *BillingRecord) Deletable() bool {
	return b.Status == BillingStatusDraft || b.Status == BillingStatusCancelled
}

// IsValidApprovalStatus indica si el estado de aprobación pertenece al catálogo.
func IsValidApprovalStatus(s string) bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// AwaitingApproval indica si la factura puede aprobarse o devolverse.
func (b *BillingRecord) AwaitingApproval() bool {
	return b.ApprovalStatus == ApprovalStatusPending && b.Status == BillingStatusDraft
}

// MarkApproved registra la aprobación.
func (b *BillingRecord) MarkApproved(by string, at time.Time) {
	b.ApprovalStatus = ApprovalStatusApproved
	b.ApprovedBy = by
	b.ApprovedAt = &at
	b.RejectionReason = ""
}

// MarkRejected devuelve la factura con un motivo.
func (b *BillingRecord) MarkRejected(reason string) {
	b.ApprovalStatus = ApprovalStatusRejected
	b.ApprovedBy = ""
	b.ApprovedAt = nil
	b.RejectionReason = reason
}

// Resubmit vuelve a solicitar aprobación; el motivo del rechazo anterior se conserva
// hasta la nueva decisión.
func (b *BillingRecord) Resubmit() {
	b.ApprovalStatus = ApprovalStatusPending
	b.ApprovedBy = ""
	b.ApprovedAt = nil
}
