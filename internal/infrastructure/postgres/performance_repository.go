package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

var _ repository.PerformanceRecordRepository = (*PerformanceRepo)(nil)

const performanceSelect = `
	SELECT p.id, p.user_id, u.username, p.month, p.sales_amount, p.incentive_amount,
		p.department, p.created_at, p.updated_at
	FROM performance_records p
	JOIN users u ON u.id = p.user_id`

const performanceDuplicate = "同じユーザー・年月の実績が既に登録されています"

// PerformanceRepo rendimiento mensual sobre PostgreSQL (usable con pool o tx).
type PerformanceRepo struct {
	q Querier
}

// NewPerformanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPerformanceRepository(q Querier) *PerformanceRepo {
	return &PerformanceRepo{q: q}
}

func scanPerformance(row pgx.Row) (*entity.PerformanceRecord, error) {
	var (
		p     entity.PerformanceRecord
		month string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &month, &p.SalesAmount, &p.IncentiveAmount,
		&p.Department, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Month, err = entity.ParseMonth(month); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PerformanceRepo) Create(ctx context.Context, p *entity.PerformanceRecord) error {
	query := `
		INSERT INTO performance_records (id, user_id, month, sales_amount, incentive_amount, department, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.Month.String(), p.SalesAmount, p.IncentiveAmount, p.Department, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return writeError("insert performance record", err, performanceDuplicate, "実績の対象ユーザーが存在しません")
	}
	return nil
}

func (r *PerformanceRepo) get(ctx context.Context, query string, args ...any) (*entity.PerformanceRecord, error) {
	p, err := scanPerformance(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get performance record: %w", err)
	}
	return p, nil
}

func (r *PerformanceRepo) GetByID(ctx context.Context, id string) (*entity.PerformanceRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.get(ctx, performanceSelect+` WHERE p.id = $1`, id)
}

func (r *PerformanceRepo) GetForUpdate(ctx context.Context, id string) (*entity.PerformanceRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.get(ctx, performanceSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

func (r *PerformanceRepo) GetByUserAndMonth(ctx context.Context, userID string, month entity.Month) (*entity.PerformanceRecord, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.get(ctx, performanceSelect+` WHERE p.user_id = $1 AND p.month = $2`, userID, month.String())
}

func (r *PerformanceRepo) Update(ctx context.Context, p *entity.PerformanceRecord) error {
	query := `
		UPDATE performance_records SET month = $2, sales_amount = $3, incentive_amount = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Month.String(), p.SalesAmount, p.IncentiveAmount, p.UpdatedAt)
	if err != nil {
		return writeError("update performance record", err, performanceDuplicate, "")
	}
	return affected(tag)
}

func (r *PerformanceRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM performance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete performance record: %w", err)
	}
	return affected(tag)
}

func (r *PerformanceRepo) List(ctx context.Context, f repository.PerformanceFilter) ([]*entity.PerformanceRecord, error) {
	var list []*entity.PerformanceRecord
	err := r.Each(ctx, f, func(p *entity.PerformanceRecord) error {
		list = append(list, p)
		return nil
	})
	return list, err
}

func (r *PerformanceRepo) Each(ctx context.Context, f repository.PerformanceFilter, fn func(*entity.PerformanceRecord) error) error {
	if f.UserID != "" && !validID(f.UserID) {
		return nil
	}
	var w where
	if f.Department != "" {
		w.add("p.department = $%d", f.Department)
	}
	if f.UserID != "" {
		w.add("p.user_id = $%d", f.UserID)
	}
	if f.Month != nil {
		w.add("p.month = $%d", f.Month.String())
	}
	query := performanceSelect + w.sql() + ` ORDER BY p.month DESC, u.username, p.id`
	query += w.paged(f.Page)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return fmt.Errorf("list performance records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return fmt.Errorf("scan performance record: %w", err)
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PerformanceRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM performance_records WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count performance by user: %w", err)
	}
	return n, nil
}
