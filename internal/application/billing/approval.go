package billing

import (
	"context"
	"strings"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/application/usecase"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// maxBulkApprove tope de facturas por aprobación en bloque.
const maxBulkApprove = 100

// Approve aprueba un borrador pendiente.
func (uc *BillingUseCase) Approve(ctx context.Context, id entity.Identity, billingID string) (*dto.BillingResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionApprove); err != nil {
		return nil, err
	}
	var rec *entity.BillingRecord
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		rec, err = uc.approveOne(ctx, r, id, billingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToBillingResponse(rec), nil
}

// BulkApprove aprueba varias facturas en una sola transacción: si alguna no existe o
// no está pendiente no se aprueba ninguna.
func (uc *BillingUseCase) BulkApprove(ctx context.Context, id entity.Identity, in dto.BulkApproveRequest) (*dto.BulkApproveResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionApprove); err != nil {
		return nil, err
	}
	ids := dedupe(in.IDs)
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids", "承認する請求書を選択してください")
	}
	if len(ids) > maxBulkApprove {
		return nil, domain.NewValidationError("ids", "一度に承認できるのは100件までです")
	}

	approved := make([]*entity.BillingRecord, 0, len(ids))
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		for _, billingID := range ids {
			rec, err := uc.approveOne(ctx, r, id, billingID)
			if err != nil {
				return err
			}
			approved = append(approved, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := &dto.BulkApproveResponse{Items: make([]dto.BillingResponse, 0, len(approved))}
	for _, rec := range approved {
		out.Items = append(out.Items, *ToBillingResponse(rec))
	}
	return out, nil
}

func (uc *BillingUseCase) approveOne(ctx context.Context, r repository.Repos, id entity.Identity, billingID string) (*entity.BillingRecord, error) {
	rec, err := r.Billing.GetForUpdate(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if !rec.AwaitingApproval() {
		return nil, domain.NewConflictError("承認待ちの請求書ではありません: " + rec.InvoiceNumber)
	}
	now := uc.now().UTC()
	rec.MarkApproved(id.UserID, now)
	rec.UpdatedAt = now
	if err := r.Billing.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Reject devuelve un borrador pendiente con un motivo obligatorio.
func (uc *BillingUseCase) Reject(ctx context.Context, id entity.Identity, billingID string, in dto.RejectBillingRequest) (*dto.BillingResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionApprove); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "差戻し理由を入力してください")
	}
	if err := usecase.RequireText("reason", reason, 500); err != nil {
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
		if !rec.AwaitingApproval() {
			return domain.NewConflictError("承認待ちの請求書ではありません: " + rec.InvoiceNumber)
		}
		rec.MarkRejected(reason)
		rec.UpdatedAt = uc.now().UTC()
		return r.Billing.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return ToBillingResponse(rec), nil
}

// Resubmit vuelve a solicitar la aprobación de un borrador devuelto.
func (uc *BillingUseCase) Resubmit(ctx context.Context, id entity.Identity, billingID string) (*dto.BillingResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceBilling, access.ActionUpdate); err != nil {
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
		if rec.ApprovalStatus != entity.ApprovalStatusRejected || rec.Status != entity.BillingStatusDraft {
			return domain.NewConflictError("差戻しされた下書きのみ再申請できます")
		}
		rec.Resubmit()
		rec.UpdatedAt = uc.now().UTC()
		return r.Billing.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return ToBillingResponse(rec), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
