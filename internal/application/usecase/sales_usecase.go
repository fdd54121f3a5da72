package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// SalesUseCase CRUD de ventas. Profit siempre se recalcula desde amount y cost.
type SalesUseCase struct {
	tx   repository.TxRunner
	gate *access.Gate
	now  func() time.Time
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(tx repository.TxRunner, gate *access.Gate) *SalesUseCase {
	return &SalesUseCase{tx: tx, gate: gate, now: time.Now}
}

// List lista ventas. El rol user queda restringido a su departamento.
func (uc *SalesUseCase) List(ctx context.Context, id entity.Identity, in dto.SalesListRequest) (*dto.SalesListResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourceSales, access.ActionList)
	if err != nil {
		return nil, err
	}
	department, err := ScopedDepartment(grant, in.Department)
	if err != nil {
		return nil, err
	}
	if in.Status != "" && !entity.IsValidSalesStatus(in.Status) {
		return nil, domain.NewValidationError("status", "不明なステータスです")
	}
	month, err := ParseOptionalMonth("month", in.Month)
	if err != nil {
		return nil, err
	}
	page := PageOf(in.PageRequest)
	filter := repository.SalesFilter{
		Department: department,
		OwnerID:    in.OwnerID,
		Status:     in.Status,
		Page:       page,
	}
	if month != nil {
		from, to := month.Range()
		filter.DeliveryFrom, filter.DeliveryTo = &from, &to
	}

	var list []*entity.SalesRecord
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Sales.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSalesResponse(s))
	}
	return &dto.SalesListResponse{Items: items, Page: pageResponse(page)}, nil
}

// Get obtiene una venta.
func (uc *SalesUseCase) Get(ctx context.Context, id entity.Identity, salesID string) (*dto.SalesResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourceSales, access.ActionRead)
	if err != nil {
		return nil, err
	}
	var rec *entity.SalesRecord
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Sales.GetByID(ctx, salesID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if err := grant.AllowsDepartment(rec.Department); err != nil {
		return nil, err
	}
	return toSalesResponse(rec), nil
}

// Create registra una venta. Sin owner_id el propietario es el llamador; sin
// department se usa el del propietario.
func (uc *SalesUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateSalesRequest) (*dto.SalesResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceSales, access.ActionCreate); err != nil {
		return nil, err
	}
	if err := RequireText("project_name", in.ProjectName, 200); err != nil {
		return nil, err
	}
	if err := RequireText("customer_name", in.CustomerName, 200); err != nil {
		return nil, err
	}
	if err := RequireNonNegative("amount", in.Amount); err != nil {
		return nil, err
	}
	if err := RequireNonNegative("cost", in.Cost); err != nil {
		return nil, err
	}
	delivery, err := ParseDate("delivery_date", in.DeliveryDate)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = entity.SalesStatusPlanned
	}
	if !entity.IsValidSalesStatus(in.Status) {
		return nil, domain.NewValidationError("status", "不明なステータスです")
	}
	ownerID := in.OwnerID
	if ownerID == "" {
		ownerID = id.UserID
	}

	now := uc.now().UTC()
	rec := &entity.SalesRecord{
		ID:           uuid.New().String(),
		ProjectName:  strings.TrimSpace(in.ProjectName),
		CustomerName: strings.TrimSpace(in.CustomerName),
		Amount:       in.Amount,
		Cost:         in.Cost,
		DeliveryDate: delivery,
		Status:       in.Status,
		Department:   entity.NormalizeDepartment(in.Department),
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rec.RecomputeProfit()

	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		owner, err := r.Users.GetByID(ctx, rec.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.NewValidationError("owner_id", "ユーザーが存在しません")
		}
		if rec.Department == "" {
			rec.Department = owner.Department
		}
		return r.Sales.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return toSalesResponse(rec), nil
}

// Update aplica un parche y recalcula profit.
func (uc *SalesUseCase) Update(ctx context.Context, id entity.Identity, salesID string, in dto.UpdateSalesRequest) (*dto.SalesResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourceSales, access.ActionUpdate); err != nil {
		return nil, err
	}
	if in.ProjectName != nil {
		if err := RequireText("project_name", *in.ProjectName, 200); err != nil {
			return nil, err
		}
	}
	if in.CustomerName != nil {
		if err := RequireText("customer_name", *in.CustomerName, 200); err != nil {
			return nil, err
		}
	}
	if in.Amount != nil {
		if err := RequireNonNegative("amount", *in.Amount); err != nil {
			return nil, err
		}
	}
	if in.Cost != nil {
		if err := RequireNonNegative("cost", *in.Cost); err != nil {
			return nil, err
		}
	}
	var delivery time.Time
	if in.DeliveryDate != nil {
		d, err := ParseDate("delivery_date", *in.DeliveryDate)
		if err != nil {
			return nil, err
		}
		delivery = d
	}
	if in.Status != nil && !entity.IsValidSalesStatus(*in.Status) {
		return nil, domain.NewValidationError("status", "不明なステータスです")
	}
	var department string
	if in.Department != nil {
		department = entity.NormalizeDepartment(*in.Department)
		if err := RequireText("department", department, 100); err != nil {
			return nil, err
		}
	}

	var rec *entity.SalesRecord
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Sales.GetForUpdate(ctx, salesID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if in.OwnerID != nil && *in.OwnerID != rec.OwnerID {
			owner, err := r.Users.GetByID(ctx, *in.OwnerID)
			if err != nil {
				return err
			}
			if owner == nil {
				return domain.NewValidationError("owner_id", "ユーザーが存在しません")
			}
			rec.OwnerID = owner.ID
		}
		if in.ProjectName != nil {
			rec.ProjectName = strings.TrimSpace(*in.ProjectName)
		}
		if in.CustomerName != nil {
			rec.CustomerName = strings.TrimSpace(*in.CustomerName)
		}
		if in.Amount != nil {
			rec.Amount = *in.Amount
		}
		if in.Cost != nil {
			rec.Cost = *in.Cost
		}
		if in.DeliveryDate != nil {
			rec.DeliveryDate = delivery
		}
		if in.Status != nil {
			rec.Status = *in.Status
		}
		if in.Department != nil {
			rec.Department = department
		}
		rec.RecomputeProfit()
		rec.UpdatedAt = uc.now().UTC()
		return r.Sales.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return toSalesResponse(rec), nil
}

// Delete elimina una venta.
func (uc *SalesUseCase) Delete(ctx context.Context, id entity.Identity, salesID string) error {
	if _, err := uc.gate.Check(id, access.ResourceSales, access.ActionDelete); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		rec, err := r.Sales.GetForUpdate(ctx, salesID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		return r.Sales.Delete(ctx, salesID)
	})
}

// ScopedDepartment resuelve el filtro de departamento según el alcance concedido.
// Pedir otro departamento con alcance departamental es Forbidden.
func ScopedDepartment(grant access.Grant, requested string) (string, error) {
	requested = entity.NormalizeDepartment(requested)
	switch grant.Scope {
	case access.ScopeAll:
		return requested, nil
	case access.ScopeDepartment:
		scoped := grant.Department()
		if scoped == "" || (requested != "" && requested != scoped) {
			return "", domain.ErrForbidden
		}
		return scoped, nil
	}
	return "", domain.ErrForbidden
}

func toSalesResponse(s *entity.SalesRecord) *dto.SalesResponse {
	return &dto.SalesResponse{
		ID:           s.ID,
		ProjectName:  s.ProjectName,
		CustomerName: s.CustomerName,
		Amount:       s.Amount,
		Cost:         s.Cost,
		Profit:       s.Profit,
		DeliveryDate: s.DeliveryDate.Format(entity.DateLayout),
		Status:       s.Status,
		Department:   s.Department,
		OwnerID:      s.OwnerID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
