package billing

import (
	"context"

	"github.com/festal/festal-backend/internal/domain/entity"
)

// InvoiceNotifier avisa a un destino externo que una factura fue enviada.
// El destino es opaco para el núcleo (webhook de Teams u otro).
type InvoiceNotifier interface {
	InvoiceSent(ctx context.Context, rec entity.BillingRecord) error
}

// InvoicePDFGenerator genera la representación imprimible de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, rec *entity.BillingRecord) ([]byte, error)
}
