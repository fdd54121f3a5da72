package billing

import (
	"context"
	"fmt"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// PDFUseCase genera la factura imprimible. No se genera PDF de borradores.
type PDFUseCase struct {
	tx        repository.TxRunner
	gate      *access.Gate
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(tx repository.TxRunner, gate *access.Gate, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{tx: tx, gate: gate, generator: generator}
}

// DownloadInvoicePDF devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrForbidden    si el rol no puede leer facturación.
//   - domain.ErrNotFound     si la factura no existe.
//   - domain.ErrInvalidInput si la factura sigue en draft.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, id entity.Identity, billingID string) (pdfBytes []byte, filename string, err error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionRead); err != nil {
		return nil, "", err
	}
	var rec *entity.BillingRecord
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Billing.GetByID(ctx, billingID)
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if rec == nil {
		return nil, "", domain.ErrNotFound
	}
	if rec.Status == entity.BillingStatusDraft {
		return nil, "", domain.NewValidationError("status", "la factura está en draft; emítala antes de descargar el PDF")
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, rec)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, rec.InvoiceNumber + ".pdf", nil
}
