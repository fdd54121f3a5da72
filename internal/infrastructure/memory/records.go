package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

var (
	_ repository.SalesRecordRepository       = (*salesRepo)(nil)
	_ repository.PerformanceRecordRepository = (*performanceRepo)(nil)
	_ repository.BillingRecordRepository     = (*billingRepo)(nil)
)

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type salesRepo struct {
	st *state
	ro bool
}

func (r *salesRepo) Create(_ context.Context, rec *entity.SalesRecord) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.users[rec.OwnerID]; !ok {
		return domain.NewConflictError("売上の担当ユーザーが存在しません")
	}
	if _, ok := r.st.sales[rec.ID]; ok {
		return domain.NewConflictError("venta duplicada")
	}
	r.st.sales[rec.ID] = *rec
	return nil
}

func (r *salesRepo) GetByID(_ context.Context, id string) (*entity.SalesRecord, error) {
	rec, ok := r.st.sales[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *salesRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *salesRepo) Update(_ context.Context, rec *entity.SalesRecord) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.sales[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.st.users[rec.OwnerID]; !ok {
		return domain.NewConflictError("売上の担当ユーザーが存在しません")
	}
	r.st.sales[rec.ID] = *rec
	return nil
}

func (r *salesRepo) Delete(_ context.Context, id string) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.sales, id)
	return nil
}

func (r *salesRepo) filtered(f repository.SalesFilter) []*entity.SalesRecord {
	var out []*entity.SalesRecord
	for _, rec := range r.st.sales {
		if f.Department != "" && rec.Department != f.Department {
			continue
		}
		if f.OwnerID != "" && rec.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if !inRange(rec.DeliveryDate, f.DeliveryFrom, f.DeliveryTo) {
			continue
		}
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeliveryDate.Equal(out[j].DeliveryDate) {
			return out[i].DeliveryDate.After(out[j].DeliveryDate)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Page)
}

func (r *salesRepo) List(_ context.Context, f repository.SalesFilter) ([]*entity.SalesRecord, error) {
	return r.filtered(f), nil
}

func (r *salesRepo) Each(ctx context.Context, f repository.SalesFilter, fn func(*entity.SalesRecord) error) error {
	for _, rec := range r.filtered(f) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *salesRepo) CountByOwner(_ context.Context, userID string) (int, error) {
	n := 0
	for _, rec := range r.st.sales {
		if rec.OwnerID == userID {
			n++
		}
	}
	return n, nil
}

// ── Rendimiento ───────────────────────────────────────────────────────────────

type performanceRepo struct {
	st *state
	ro bool
}

func (r *performanceRepo) withUsername(rec entity.PerformanceRecord) *entity.PerformanceRecord {
	if u, ok := r.st.users[rec.UserID]; ok {
		rec.Username = u.Username
	}
	return &rec
}

func (r *performanceRepo) checkUnique(rec *entity.PerformanceRecord) error {
	for id, other := range r.st.perf {
		if id != rec.ID && other.UserID == rec.UserID && other.Month == rec.Month {
			return domain.NewConflictError("同じユーザー・年月の実績が既に登録されています")
		}
	}
	return nil
}

func (r *performanceRepo) Create(_ context.Context, rec *entity.PerformanceRecord) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.users[rec.UserID]; !ok {
		return domain.NewConflictError("実績の対象ユーザーが存在しません")
	}
	if err := r.checkUnique(rec); err != nil {
		return err
	}
	stored := *rec
	stored.Username = ""
	r.st.perf[rec.ID] = stored
	return nil
}

func (r *performanceRepo) GetByID(_ context.Context, id string) (*entity.PerformanceRecord, error) {
	rec, ok := r.st.perf[id]
	if !ok {
		return nil, nil
	}
	return r.withUsername(rec), nil
}

func (r *performanceRepo) GetForUpdate(ctx context.Context, id string) (*entity.PerformanceRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *performanceRepo) GetByUserAndMonth(_ context.Context, userID string, month entity.Month) (*entity.PerformanceRecord, error) {
	for _, rec := range r.st.perf {
		if rec.UserID == userID && rec.Month == month {
			return r.withUsername(rec), nil
		}
	}
	return nil, nil
}

func (r *performanceRepo) Update(_ context.Context, rec *entity.PerformanceRecord) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.perf[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkUnique(rec); err != nil {
		return err
	}
	stored := *rec
	stored.Username = ""
	r.st.perf[rec.ID] = stored
	return nil
}

func (r *performanceRepo) Delete(_ context.Context, id string) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.perf[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.perf, id)
	return nil
}

func (r *performanceRepo) filtered(f repository.PerformanceFilter) []*entity.PerformanceRecord {
	var out []*entity.PerformanceRecord
	for _, rec := range r.st.perf {
		if f.Department != "" && rec.Department != f.Department {
			continue
		}
		if f.UserID != "" && rec.UserID != f.UserID {
			continue
		}
		if f.Month != nil && rec.Month != *f.Month {
			continue
		}
		out = append(out, r.withUsername(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month.String() > out[j].Month.String()
		}
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Page)
}

func (r *performanceRepo) List(_ context.Context, f repository.PerformanceFilter) ([]*entity.PerformanceRecord, error) {
	return r.filtered(f), nil
}

func (r *performanceRepo) Each(ctx context.Context, f repository.PerformanceFilter, fn func(*entity.PerformanceRecord) error) error {
	for _, rec := range r.filtered(f) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *performanceRepo) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, rec := range r.st.perf {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ── Facturación ───────────────────────────────────────────────────────────────

type billingRepo struct {
	st *state
	ro bool
}

func (r *billingRepo) checkUnique(rec *entity.BillingRecord) error {
	for id, other := range r.st.billing {
		if id != rec.ID && other.InvoiceNumber == rec.InvoiceNumber {
			return domain.NewConflictError("請求書番号は既に登録されています")
		}
	}
	return nil
}

func (r *billingRepo) Create(_ context.Context, rec *entity.BillingRecord) error {
	if r.ro {
		return ErrReadOnly
	}
	if err := r.checkUnique(rec); err != nil {
		return err
	}
	r.st.billing[rec.ID] = *rec
	return nil
}

func (r *billingRepo) GetByID(_ context.Context, id string) (*entity.BillingRecord, error) {
	rec, ok := r.st.billing[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *billingRepo) GetForUpdate(ctx context.Context, id string) (*entity.BillingRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *billingRepo) GetByInvoiceNumber(_ context.Context, number string) (*entity.BillingRecord, error) {
	for _, rec := range r.st.billing {
		if rec.InvoiceNumber == number {
			rec := rec
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *billingRepo) Update(_ context.Context, rec *entity.BillingRecord) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.billing[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkUnique(rec); err != nil {
		return err
	}
	r.st.billing[rec.ID] = *rec
	return nil
}

func (r *billingRepo) Delete(_ context.Context, id string) error {
	if r.ro {
		return ErrReadOnly
	}
	if _, ok := r.st.billing[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.billing, id)
	return nil
}

func (r *billingRepo) filtered(f repository.BillingFilter) []*entity.BillingRecord {
	var out []*entity.BillingRecord
	for _, rec := range r.st.billing {
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && rec.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.ApprovalStatus != "" && rec.ApprovalStatus != f.ApprovalStatus {
			continue
		}
		if f.CustomerName != "" && !strings.Contains(rec.CustomerName, f.CustomerName) {
			continue
		}
		if !inRange(rec.IssueDate, f.IssueFrom, f.IssueTo) {
			continue
		}
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].InvoiceNumber < out[j].InvoiceNumber
	})
	return paginate(out, f.Page)
}

func (r *billingRepo) List(_ context.Context, f repository.BillingFilter) ([]*entity.BillingRecord, error) {
	return r.filtered(f), nil
}

func (r *billingRepo) Each(ctx context.Context, f repository.BillingFilter, fn func(*entity.BillingRecord) error) error {
	for _, rec := range r.filtered(f) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
