package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBillingRequest body para POST /billing.
// Status vacío = draft; PaymentStatus vacío = unpaid.
type CreateBillingRequest struct {
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	IssueDate     string          `json:"issue_date"` // YYYY-MM-DD
	DueDate       string          `json:"due_date"`   // YYYY-MM-DD
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
}

// UpdateBillingRequest actualización parcial. Los cambios de estado siguen las
// transiciones permitidas.
type UpdateBillingRequest struct {
	InvoiceNumber *string          `json:"invoice_number"`
	CustomerName  *string          `json:"customer_name"`
	Amount        *decimal.Decimal `json:"amount"`
	IssueDate     *string          `json:"issue_date"`
	DueDate       *string          `json:"due_date"`
	Status        *string          `json:"status"`
	PaymentStatus *string          `json:"payment_status"`
}

// BillingListRequest filtros de GET /billing.
type BillingListRequest struct {
	Status         string `query:"status"`
	PaymentStatus  string `query:"payment_status"`
	ApprovalStatus string `query:"approval_status"`
	CustomerName   string `query:"customer_name"`
	Month          string `query:"month"` // YYYY-MM sobre issue_date
	PageRequest
}

// BillingResponse factura en respuestas.
type BillingResponse struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	Amount          decimal.Decimal `json:"amount"`
	IssueDate       string          `json:"issue_date"`
	DueDate         string          `json:"due_date"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	SentAt          *time.Time      `json:"sent_at,omitempty"`
	ApprovalStatus  string          `json:"approval_status"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BillingListResponse lista paginada de facturas.
type BillingListResponse struct {
	Items []BillingResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SendBillingResponse resultado de POST /billing/:id/send.
// Notified=false indica que la factura quedó enviada pero la notificación falló.
type SendBillingResponse struct {
	Billing  BillingResponse `json:"billing"`
	Notified bool            `json:"notified"`
}

// RejectBillingRequest body para POST /billing/:id/reject.
type RejectBillingRequest struct {
	Reason string `json:"reason"`
}

// BulkApproveRequest body para POST /billing/approve. Se aprueban todas o ninguna.
type BulkApproveRequest struct {
	IDs []string `json:"ids"`
}

// BulkApproveResponse facturas aprobadas, en el orden pedido.
type BulkApproveResponse struct {
	Items []BillingResponse `json:"items"`
}
