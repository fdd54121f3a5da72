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

var _ repository.BillingRecordRepository = (*BillingRepo)(nil)

const billingColumns = `id, invoice_number, customer_name, amount, issue_date, due_date, status,
	payment_status, sent_at, approval_status, approved_by, approved_at, rejection_reason,
	created_at, updated_at`

const invoiceDuplicate = "請求書番号は既に登録されています"

// BillingRepo facturas sobre PostgreSQL (usable con pool o tx).
type BillingRepo struct {
	q Querier
}

// NewBillingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillingRepository(q Querier) *BillingRepo {
	return &BillingRepo{q: q}
}

func scanBilling(row pgx.Row) (*entity.BillingRecord, error) {
	var (
		b          entity.BillingRecord
		approvedBy *string
	)
	err := row.Scan(&b.ID, &b.InvoiceNumber, &b.CustomerName, &b.Amount, &b.IssueDate, &b.DueDate,
		&b.Status, &b.PaymentStatus, &b.SentAt, &b.ApprovalStatus, &approvedBy, &b.ApprovedAt,
		&b.RejectionReason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		b.ApprovedBy = *approvedBy
	}
	return &b, nil
}

func (r *BillingRepo) Create(ctx context.Context, b *entity.BillingRecord) error {
	query := `
		INSERT INTO billing_records (` + billingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.InvoiceNumber, b.CustomerName, b.Amount, b.IssueDate, b.DueDate,
		b.Status, b.PaymentStatus, b.SentAt, b.ApprovalStatus, nullableID(b.ApprovedBy), b.ApprovedAt,
		b.RejectionReason, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return writeError("insert billing record", err, invoiceDuplicate, "承認者のユーザーが存在しません")
	}
	return nil
}

func (r *BillingRepo) get(ctx context.Context, query, arg string) (*entity.BillingRecord, error) {
	b, err := scanBilling(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing record: %w", err)
	}
	return b, nil
}

func (r *BillingRepo) GetByID(ctx context.Context, id string) (*entity.BillingRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.get(ctx, `SELECT `+billingColumns+` FROM billing_records WHERE id = $1`, id)
}

func (r *BillingRepo) GetForUpdate(ctx context.Context, id string) (*entity.BillingRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.get(ctx, `SELECT `+billingColumns+` FROM billing_records WHERE id = $1 FOR UPDATE`, id)
}

func (r *BillingRepo) GetByInvoiceNumber(ctx context.Context, number string) (*entity.BillingRecord, error) {
	return r.get(ctx, `SELECT `+billingColumns+` FROM billing_records WHERE invoice_number = $1`, number)
}

func (r *BillingRepo) Update(ctx context.Context, b *entity.BillingRecord) error {
	query := `
		UPDATE billing_records SET invoice_number = $2, customer_name = $3, amount = $4, issue_date = $5,
			due_date = $6, status = $7, payment_status = $8, sent_at = $9, approval_status = $10,
			approved_by = $11, approved_at = $12, rejection_reason = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.InvoiceNumber, b.CustomerName, b.Amount, b.IssueDate,
		b.DueDate, b.Status, b.PaymentStatus, b.SentAt, b.ApprovalStatus,
		nullableID(b.ApprovedBy), b.ApprovedAt, b.RejectionReason, b.UpdatedAt,
	)
	if err != nil {
		return writeError("update billing record", err, invoiceDuplicate, "承認者のユーザーが存在しません")
	}
	return affected(tag)
}

func (r *BillingRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM billing_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete billing record: %w", err)
	}
	return affected(tag)
}

func (r *BillingRepo) List(ctx context.Context, f repository.BillingFilter) ([]*entity.BillingRecord, error) {
	var list []*entity.BillingRecord
	err := r.Each(ctx, f, func(b *entity.BillingRecord) error {
		list = append(list, b)
		return nil
	})
	return list, err
}

func billingQuery(f repository.BillingFilter) (string, []any) {
	var w where
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.PaymentStatus != "" {
		w.add("payment_status = $%d", f.PaymentStatus)
	}
	if f.ApprovalStatus != "" {
		w.add("approval_status = $%d", f.ApprovalStatus)
	}
	// strpos compara literalmente: % y _ del nombre no actúan como comodines
	if f.CustomerName != "" {
		w.add("strpos(customer_name, $%d) > 0", f.CustomerName)
	}
	if f.IssueFrom != nil {
		w.add("issue_date >= $%d", *f.IssueFrom)
	}
	if f.IssueTo != nil {
		w.add("issue_date < $%d", *f.IssueTo)
	}
	query := `SELECT ` + billingColumns + ` FROM billing_records` + w.sql() + ` ORDER BY issue_date DESC, invoice_number`
	query += w.paged(f.Page)
	return query, w.args
}

func (r *BillingRepo) Each(ctx context.Context, f repository.BillingFilter, fn func(*entity.BillingRecord) error) error {
	query, args := billingQuery(f)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list billing records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return fmt.Errorf("scan billing record: %w", err)
		}
		if err := fn(b); err != nil {
			return err
		}
	}
	return rows.Err()
}
