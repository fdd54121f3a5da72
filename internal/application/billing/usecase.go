// Package billing contiene los casos de uso de facturación: CRUD con reglas de
// transición de estado, envío al cliente y PDF.
package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/application/usecase"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// BillingUseCase CRUD de facturas.
//
// Transiciones:
//   - status: draft → issued → sent; cualquier estado no anulado → cancelled.
//   - payment_status: unpaid → partial → paid, sin saltos ni retrocesos.
//   - approval_status: pending → approved | rejected; rejected → pending al
//     volver a solicitar. draft → issued exige approved.
//
// Una transición ilegal es Conflict con el estado actual.
type BillingUseCase struct {
	tx       repository.TxRunner
	gate     *access.Gate
	notifier InvoiceNotifier
	now      func() time.Time
}

// SendResult resultado de Send. NotifyErr no anula el envío ya confirmado.
type SendResult struct {
	Billing   dto.BillingResponse
	Notified  bool
	NotifyErr error
}

// NewBillingUseCase construye el caso de uso. notifier puede ser nil.
func NewBillingUseCase(tx repository.TxRunner, gate *access.Gate, notifier InvoiceNotifier) *BillingUseCase {
	return &BillingUseCase{tx: tx, gate: gate, notifier: notifier, now: time.Now}
}

// List lista facturas.
func (uc *BillingUseCase) List(ctx context.Context, id entity.Identity, in dto.BillingListRequest) (*dto.BillingListResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionList); err != nil {
		return nil, err
	}
	if in.Status != "" && !entity.IsValidBillingStatus(in.Status) {
		return nil, domain.NewValidationError("status", "不明なステータスです")
	}
	if in.PaymentStatus != "" && !entity.IsValidPaymentStatus(in.PaymentStatus) {
		return nil, domain.NewValidationError("payment_status", "不明な入金ステータスです")
	}
	if in.ApprovalStatus != "" && !entity.IsValidApprovalStatus(in.ApprovalStatus) {
		return nil, domain.NewValidationError("approval_status", "不明な承認ステータスです")
	}
	month, err := usecase.ParseOptionalMonth("month", in.Month)
	if err != nil {
		return nil, err
	}
	page := usecase.PageOf(in.PageRequest)
	filter := repository.BillingFilter{
		Status:         in.Status,
		PaymentStatus:  in.PaymentStatus,
		ApprovalStatus: in.ApprovalStatus,
		CustomerName:   strings.TrimSpace(in.CustomerName),
		Page:           page,
	}
	if month != nil {
		from, to := month.Range()
		filter.IssueFrom, filter.IssueTo = &from, &to
	}

	var list []*entity.BillingRecord
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Billing.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.BillingResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *ToBillingResponse(b))
	}
	return &dto.BillingListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Get obtiene una factura.
func (uc *BillingUseCase) Get(ctx context.Context, id entity.Identity, billingID string) (*dto.BillingResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionRead); err != nil {
		return nil, err
	}
	rec, err := uc.load(ctx, billingID)
	if err != nil {
		return nil, err
	}
	return ToBillingResponse(rec), nil
}

func (uc *BillingUseCase) load(ctx context.Context, billingID string) (*entity.BillingRecord, error) {
	var rec *entity.BillingRecord
	err := uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Billing.GetByID(ctx, billingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Create emite una factura en estado draft o issued, siempre sin pagar. Un borrador
// queda pendiente de aprobación.
func (uc *BillingUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateBillingRequest) (*dto.BillingResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionCreate); err != nil {
		return nil, err
	}
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	if !entity.IsValidInvoiceNumber(in.InvoiceNumber) {
		return nil, domain.NewValidationError("invoice_number", "INV-YYYY-NNN 形式で入力してください")
	}
	if err := usecase.RequireText("customer_name", in.CustomerName, 200); err != nil {
		return nil, err
	}
	if err := usecase.RequirePositive("amount", in.Amount); err != nil {
		return nil, err
	}
	issue, err := usecase.ParseDate("issue_date", in.IssueDate)
	if err != nil {
		return nil, err
	}
	due, err := usecase.ParseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	if due.Before(issue) {
		return nil, domain.NewValidationError("due_date", "発行日より前の日付は指定できません")
	}
	if in.Status == "" {
		in.Status = entity.BillingStatusDraft
	}
	if in.Status != entity.BillingStatusDraft && in.Status != entity.BillingStatusIssued {
		return nil, domain.NewValidationError("status", "新規請求書は draft または issued のみ指定できます")
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = entity.PaymentStatusUnpaid
	}
	if in.PaymentStatus != entity.PaymentStatusUnpaid {
		return nil, domain.NewValidationError("payment_status", "新規請求書の入金ステータスは unpaid のみです")
	}

	now := uc.now().UTC()
	rec := &entity.BillingRecord{
		ID:             uuid.New().String(),
		InvoiceNumber:  in.InvoiceNumber,
		CustomerName:   strings.TrimSpace(in.CustomerName),
		Amount:         in.Amount,
		IssueDate:      issue,
		DueDate:        due,
		Status:         in.Status,
		PaymentStatus:  in.PaymentStatus,
		ApprovalStatus: entity.ApprovalStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// emitir directamente implica la aprobación de quien emite
	if rec.Status == entity.BillingStatusIssued {
		rec.MarkApproved(id.UserID, now)
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Billing.GetByInvoiceNumber(ctx, rec.InvoiceNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflictError("請求書番号は既に登録されています")
		}
		return r.Billing.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return ToBillingResponse(rec), nil
}

// Update aplica un parche respetando las transiciones de estado.
func (uc *BillingUseCase) Update(ctx context.Context, id entity.Identity, billingID string, in dto.UpdateBillingRequest) (*dto.BillingResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionUpdate); err != nil {
		return nil, err
	}
	if in.InvoiceNumber != nil {
		*in.InvoiceNumber = strings.TrimSpace(*in.InvoiceNumber)
		if !entity.IsValidInvoiceNumber(*in.InvoiceNumber) {
			return nil, domain.NewValidationError("invoice_number", "INV-YYYY-NNN 形式で入力してください")
		}
	}
	if in.CustomerName != nil {
		if err := usecase.RequireText("customer_name", *in.CustomerName, 200); err != nil {
			return nil, err
		}
	}
	if in.Amount != nil {
		if err := usecase.RequirePositive("amount", *in.Amount); err != nil {
			return nil, err
		}
	}
	var issue, due time.Time
	if in.IssueDate != nil {
		d, err := usecase.ParseDate("issue_date", *in.IssueDate)
		if err != nil {
			return nil, err
		}
		issue = d
	}
	if in.DueDate != nil {
		d, err := usecase.ParseDate("due_date", *in.DueDate)
		if err != nil {
			return nil, err
		}
		due = d
	}
	if in.Status != nil && !entity.IsValidBillingStatus(*in.Status) {
		return nil, domain.NewValidationError("status", "不明なステータスです")
	}
	if in.PaymentStatus != nil && !entity.IsValidPaymentStatus(*in.PaymentStatus) {
		return nil, domain.NewValidationError("payment_status", "不明な入金ステータスです")
	}

	var rec *entity.BillingRecord
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Billing.GetForUpdate(ctx, billingID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if in.InvoiceNumber != nil && *in.InvoiceNumber != rec.InvoiceNumber {
			existing, err := r.Billing.GetByInvoiceNumber(ctx, *in.InvoiceNumber)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.NewConflictError("請求書番号は既に登録されています")
			}
			rec.InvoiceNumber = *in.InvoiceNumber
		}
		contentChanged := in.CustomerName != nil || in.Amount != nil || in.IssueDate != nil || in.DueDate != nil
		if in.CustomerName != nil {
			rec.CustomerName = strings.TrimSpace(*in.CustomerName)
		}
		if in.Amount != nil {
			rec.Amount = *in.Amount
		}
		if in.IssueDate != nil {
			rec.IssueDate = issue
		}
		if in.DueDate != nil {
			rec.DueDate = due
		}
		if rec.DueDate.Before(rec.IssueDate) {
			return domain.NewValidationError("due_date", "発行日より前の日付は指定できません")
		}
		now := uc.now().UTC()
		// un borrador aprobado que cambia de contenido vuelve a aprobación
		if contentChanged && rec.Status == entity.BillingStatusDraft && rec.ApprovalStatus == entity.ApprovalStatusApproved {
			rec.Resubmit()
		}
		if in.Status != nil {
			if !entity.CanTransitionStatus(rec.Status, *in.Status) {
				return domain.NewConflictError("許可されていないステータス遷移です: " + rec.Status + " → " + *in.Status)
			}
			if rec.Status == entity.BillingStatusDraft && *in.Status == entity.BillingStatusIssued &&
				rec.ApprovalStatus != entity.ApprovalStatusApproved {
				return domain.NewConflictError("承認されていない請求書は発行できません")
			}
			if *in.Status == entity.BillingStatusSent && rec.Status != entity.BillingStatusSent {
				rec.SentAt = &now
			}
			rec.Status = *in.Status
		}
		if in.PaymentStatus != nil {
			if !entity.CanTransitionPayment(rec.PaymentStatus, *in.PaymentStatus) {
				return domain.NewConflictError("許可されていない入金ステータス遷移です: " + rec.PaymentStatus + " → " + *in.PaymentStatus)
			}
			rec.PaymentStatus = *in.PaymentStatus
		}
		rec.UpdatedAt = now
		return r.Billing.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return ToBillingResponse(rec), nil
}

// Delete elimina una factura en borrador o anulada.
func (uc *BillingUseCase) Delete(ctx context.Context, id entity.Identity, billingID string) error {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionDelete); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		rec, err := r.Billing.GetForUpdate(ctx, billingID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if !rec.Deletable() {
			return domain.NewConflictError("削除できるのは下書きまたは取消の請求書のみです")
		}
		return r.Billing.Delete(ctx, billingID)
	})
}

// Send marca una factura issued como sent y, ya confirmado el cambio, avisa al
// notificador. Un fallo de notificación no revierte el envío.
func (uc *BillingUseCase) Send(ctx context.Context, id entity.Identity, billingID string) (*SendResult, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionSend); err != nil {
		return nil, err
	}
	var rec *entity.BillingRecord
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Billing.GetForUpdate(ctx, billingID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.Status != entity.BillingStatusIssued {
			return domain.NewConflictError("送付できるのは発行済の請求書のみです (現在: " + rec.Status + ")")
		}
		now := uc.now().UTC()
		rec.Status = entity.BillingStatusSent
		rec.SentAt = &now
		rec.UpdatedAt = now
		return r.Billing.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	res := &SendResult{Billing: *ToBillingResponse(rec)}
	if uc.notifier != nil {
		if err := uc.notifier.InvoiceSent(ctx, *rec); err != nil {
			res.NotifyErr = err
			return res, nil
		}
	}
	res.Notified = true
	return res, nil
}

// ToBillingResponse convierte la entidad al DTO de salida.
func ToBillingResponse(b *entity.BillingRecord) *dto.BillingResponse {
	return &dto.BillingResponse{
		ID:              b.ID,
		InvoiceNumber:   b.InvoiceNumber,
		CustomerName:    b.CustomerName,
		Amount:          b.Amount,
		IssueDate:       b.IssueDate.Format(entity.DateLayout),
		DueDate:         b.DueDate.Format(entity.DateLayout),
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		SentAt:          b.SentAt,
		ApprovalStatus:  b.ApprovalStatus,
		ApprovedBy:      b.ApprovedBy,
		ApprovedAt:      b.ApprovedAt,
		RejectionReason: b.RejectionReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
