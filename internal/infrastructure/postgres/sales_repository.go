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

var _ repository.SalesRecordRepository = (*SalesRepo)(nil)

const salesColumns = `id, project_name, customer_name, amount, cost, profit, delivery_date, status,
	department, owner_id, created_at, updated_at`

// SalesRepo ventas sobre PostgreSQL (usable con pool o tx).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

func scanSales(row pgx.Row) (*entity.SalesRecord, error) {
	var s entity.SalesRecord
	err := row.Scan(&s.ID, &s.ProjectName, &s.CustomerName, &s.Amount, &s.Cost, &s.Profit,
		&s.DeliveryDate, &s.Status, &s.Department, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SalesRepo) Create(ctx context.Context, s *entity.SalesRecord) error {
	query := `
		INSERT INTO sales_records (` + salesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProjectName, s.CustomerName, s.Amount, s.Cost, s.Profit,
		s.DeliveryDate, s.Status, s.Department, s.OwnerID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return writeError("insert sales record", err, "売上が重複しています", "売上の担当ユーザーが存在しません")
	}
	return nil
}

func (r *SalesRepo) get(ctx context.Context, query, id string) (*entity.SalesRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	s, err := scanSales(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales record: %w", err)
	}
	return s, nil
}

func (r *SalesRepo) GetByID(ctx context.Context, id string) (*entity.SalesRecord, error) {
	return r.get(ctx, `SELECT `+salesColumns+` FROM sales_records WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: dos updates sobre la misma venta se serializan.
func (r *SalesRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesRecord, error) {
	return r.get(ctx, `SELECT `+salesColumns+` FROM sales_records WHERE id = $1 FOR UPDATE`, id)
}

func (r *SalesRepo) Update(ctx context.Context, s *entity.SalesRecord) error {
	query := `
		UPDATE sales_records SET project_name = $2, customer_name = $3, amount = $4, cost = $5, profit = $6,
			delivery_date = $7, status = $8, department = $9, owner_id = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.ProjectName, s.CustomerName, s.Amount, s.Cost, s.Profit,
		s.DeliveryDate, s.Status, s.Department, s.OwnerID, s.UpdatedAt,
	)
	if err != nil {
		return writeError("update sales record", err, "売上が重複しています", "売上の担当ユーザーが存在しません")
	}
	return affected(tag)
}

func (r *SalesRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM sales_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sales record: %w", err)
	}
	return affected(tag)
}

func salesQuery(f repository.SalesFilter) (string, []any) {
	var w where
	if f.Department != "" {
		w.add("department = $%d", f.Department)
	}
	if f.OwnerID != "" {
		w.add("owner_id = $%d", f.OwnerID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.DeliveryFrom != nil {
		w.add("delivery_date >= $%d", *f.DeliveryFrom)
	}
	if f.DeliveryTo != nil {
		w.add("delivery_date < $%d", *f.DeliveryTo)
	}
	query := `SELECT ` + salesColumns + ` FROM sales_records` + w.sql() + ` ORDER BY delivery_date DESC, id`
	query += w.paged(f.Page)
	return query, w.args
}

func (r *SalesRepo) List(ctx context.Context, f repository.SalesFilter) ([]*entity.SalesRecord, error) {
	var list []*entity.SalesRecord
	err := r.Each(ctx, f, func(s *entity.SalesRecord) error {
		list = append(list, s)
		return nil
	})
	return list, err
}

// Each recorre el cursor fila a fila.
func (r *SalesRepo) Each(ctx context.Context, f repository.SalesFilter, fn func(*entity.SalesRecord) error) error {
	if f.OwnerID != "" && !validID(f.OwnerID) {
		return nil
	}
	query, args := salesQuery(f)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list sales records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanSales(rows)
		if err != nil {
			return fmt.Errorf("scan sales record: %w", err)
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *SalesRepo) CountByOwner(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales_records WHERE owner_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales by owner: %w", err)
	}
	return n, nil
}
