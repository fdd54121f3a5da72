package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/incentive"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// PerformanceUseCase CRUD de rendimiento mensual. El incentivo se deriva de
// sales_amount con la regla de comisión; nunca se acepta del cliente.
type PerformanceUseCase struct {
	tx   repository.TxRunner
	gate *access.Gate
	rule *incentive.Rule
	now  func() time.Time
}

// NewPerformanceUseCase construye el caso de uso.
func NewPerformanceUseCase(tx repository.TxRunner, gate *access.Gate, rule *incentive.Rule) *PerformanceUseCase {
	return &PerformanceUseCase{tx: tx, gate: gate, rule: rule, now: time.Now}
}

// List lista registros de rendimiento con filtros.
func (uc *PerformanceUseCase) List(ctx context.Context, id entity.Identity, in dto.PerformanceListRequest) (*dto.PerformanceListResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourcePerformance, access.ActionList)
	if err != nil {
		return nil, err
	}
	department, err := ScopedDepartment(grant, in.Department)
	if err != nil {
		return nil, err
	}
	month, err := ParseOptionalMonth("month", in.Month)
	if err != nil {
		return nil, err
	}
	page := PageOf(in.PageRequest)
	return uc.list(ctx, repository.PerformanceFilter{
		Department: department,
		UserID:     in.UserID,
		Month:      month,
		Page:       page,
	})
}

// ListByUser registros de un usuario (GET /performance/user/:user_id).
func (uc *PerformanceUseCase) ListByUser(ctx context.Context, id entity.Identity, userID string, p dto.PageRequest) (*dto.PerformanceListResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourcePerformance, access.ActionList)
	if err != nil {
		return nil, err
	}
	department, err := ScopedDepartment(grant, "")
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, repository.PerformanceFilter{
		Department: department,
		UserID:     userID,
		Page:       PageOf(p),
	})
}

func (uc *PerformanceUseCase) list(ctx context.Context, filter repository.PerformanceFilter) (*dto.PerformanceListResponse, error) {
	var list []*entity.PerformanceRecord
	err := uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Performance.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PerformanceResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPerformanceResponse(p))
	}
	return &dto.PerformanceListResponse{Items: items, Page: pageResponse(filter.Page)}, nil
}

// Get obtiene un registro de rendimiento.
func (uc *PerformanceUseCase) Get(ctx context.Context, id entity.Identity, perfID string) (*dto.PerformanceResponse, error) {
	grant, err := uc.gate.Check(id, access.ResourcePerformance, access.ActionRead)
	if err != nil {
		return nil, err
	}
	var rec *entity.PerformanceRecord
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Performance.GetByID(ctx, perfID)
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
	return toPerformanceResponse(rec), nil
}

// Create registra el rendimiento de un usuario para un mes. Un segundo registro
// para el mismo (usuario, mes) es Conflict.
func (uc *PerformanceUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreatePerformanceRequest) (*dto.PerformanceResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourcePerformance, access.ActionCreate); err != nil {
		return nil, err
	}
	if err := RequireText("user_id", in.UserID, 0); err != nil {
		return nil, err
	}
	month, err := ParseMonth("month", in.Month)
	if err != nil {
		return nil, err
	}
	if err := RequireNonNegative("sales_amount", in.SalesAmount); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	rec := &entity.PerformanceRecord{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		Month:       month,
		SalesAmount: in.SalesAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		user, err := r.Users.GetByID(ctx, rec.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewValidationError("user_id", "ユーザーが存在しません")
		}
		existing, err := r.Performance.GetByUserAndMonth(ctx, rec.UserID, rec.Month)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflictError("同じユーザー・年月の実績が既に登録されています")
		}
		rec.Username = user.Username
		rec.Department = user.Department
		rec.IncentiveAmount = uc.rule.Compute(rec.Department, user.Role, rec.SalesAmount)
		return r.Performance.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return toPerformanceResponse(rec), nil
}

// Update aplica un parche y recalcula el incentivo. El departamento queda fijado
// al de la creación.
func (uc *PerformanceUseCase) Update(ctx context.Context, id entity.Identity, perfID string, in dto.UpdatePerformanceRequest) (*dto.PerformanceResponse, error) {
	if _, err := uc.gate.Check(id, access.ResourcePerformance, access.ActionUpdate); err != nil {
		return nil, err
	}
	var month entity.Month
	if in.Month != nil {
		m, err := ParseMonth("month", *in.Month)
		if err != nil {
			return nil, err
		}
		month = m
	}
	if in.SalesAmount != nil {
		if err := RequireNonNegative("sales_amount", *in.SalesAmount); err != nil {
			return nil, err
		}
	}

	var rec *entity.PerformanceRecord
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		rec, err = r.Performance.GetForUpdate(ctx, perfID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if in.Month != nil && month != rec.Month {
			existing, err := r.Performance.GetByUserAndMonth(ctx, rec.UserID, month)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.NewConflictError("同じユーザー・年月の実績が既に登録されています")
			}
			rec.Month = month
		}
		if in.SalesAmount != nil {
			rec.SalesAmount = *in.SalesAmount
		}
		user, err := r.Users.GetByID(ctx, rec.UserID)
		if err != nil {
			return err
		}
		role := entity.RoleUser
		if user != nil {
			role = user.Role
		}
		rec.IncentiveAmount = uc.rule.Compute(rec.Department, role, rec.SalesAmount)
		rec.UpdatedAt = uc.now().UTC()
		return r.Performance.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return toPerformanceResponse(rec), nil
}

// Delete elimina un registro de rendimiento.
func (uc *PerformanceUseCase) Delete(ctx context.Context, id entity.Identity, perfID string) error {
	if _, err := uc.gate.Check(id, access.ResourcePerformance, access.ActionDelete); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		rec, err := r.Performance.GetForUpdate(ctx, perfID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		return r.Performance.Delete(ctx, perfID)
	})
}

func toPerformanceResponse(p *entity.PerformanceRecord) *dto.PerformanceResponse {
	return &dto.PerformanceResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Username:        p.Username,
		Month:           p.Month.String(),
		SalesAmount:     p.SalesAmount,
		IncentiveAmount: p.IncentiveAmount,
		Department:      p.Department,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
