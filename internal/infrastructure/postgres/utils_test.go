package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

func TestWriteError_MapeaCodigos(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.ErrorIs(t, writeError("op", unique, "dup", "fk"), domain.ErrConflict)
	assert.ErrorIs(t, writeError("op", fmt.Errorf("wrap: %w", fk), "dup", "fk"), domain.ErrConflict)

	other := errors.New("conexión rota")
	err := writeError("insert user", other, "dup", "fk")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestSalesQuery_Filtros(t *testing.T) {
	from, to := entity.Month{Year: 2024, Month: time.January}.Range()
	q, args := salesQuery(repository.SalesFilter{
		Department:   "コンサル事業部",
		DeliveryFrom: &from,
		DeliveryTo:   &to,
		Page:         repository.Page{Limit: 20, Offset: 40},
	})
	assert.Contains(t, q, "WHERE department = $1 AND delivery_date >= $2 AND delivery_date < $3")
	assert.Contains(t, q, "LIMIT $4 OFFSET $5")
	assert.Equal(t, []any{"コンサル事業部", from, to, 20, 40}, args)
}

func TestWriteError_DatosInvalidosSonValidacion(t *testing.T) {
	for _, code := range []string{"23514", "22003", "22P02", "22001"} {
		err := writeError("insert sales record", &pgconn.PgError{Code: code, ColumnName: "amount"}, "dup", "fk")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, code)
		assert.Equal(t, "amount", verr.Field)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("6f1c3a8e-2b4d-4c1e-9a7f-0d2e5b8c1a3f"))
	assert.False(t, validID("no-existe"))
	assert.False(t, validID(""))
	assert.False(t, validID("1; DROP TABLE users"))
}

// Con un id que no es UUID los repositorios responden sin consultar la base: un
// Querier nil haría panic si llegaran a usarlo.
func TestRepos_IDsNoUUIDNoLleganALaBase(t *testing.T) {
	ctx := context.Background()

	sale, err := NewSalesRepository(nil).GetForUpdate(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, sale)
	assert.ErrorIs(t, NewSalesRepository(nil).Delete(ctx, "abc"), domain.ErrNotFound)
	n, err := NewSalesRepository(nil).CountByOwner(ctx, "abc")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, NewSalesRepository(nil).Each(ctx, repository.SalesFilter{OwnerID: "abc"}, func(*entity.SalesRecord) error {
		t.Fatal("no debería haber filas")
		return nil
	}))

	perf, err := NewPerformanceRepository(nil).GetByID(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, perf)
	perf, err = NewPerformanceRepository(nil).GetByUserAndMonth(ctx, "abc", entity.Month{Year: 2024, Month: time.March})
	assert.NoError(t, err)
	assert.Nil(t, perf)
	list, err := NewPerformanceRepository(nil).List(ctx, repository.PerformanceFilter{UserID: "abc"})
	assert.NoError(t, err)
	assert.Empty(t, list)

	bill, err := NewBillingRepository(nil).GetByID(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, bill)
	assert.ErrorIs(t, NewBillingRepository(nil).Delete(ctx, "abc"), domain.ErrNotFound)

	user, err := NewUserRepository(nil).GetForUpdate(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, NewUserRepository(nil).Delete(ctx, "abc"), domain.ErrNotFound)

	sess, err := NewSessionRepository(nil).GetByID(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, sess)
	assert.NoError(t, NewSessionRepository(nil).DeleteByUser(ctx, "abc"))
}

func TestBillingQuery_ClienteLiteral(t *testing.T) {
	q, args := billingQuery(repository.BillingFilter{
		ApprovalStatus: entity.ApprovalStatusPending,
		CustomerName:   "100%_株式会社",
	})
	assert.Contains(t, q, "WHERE approval_status = $1 AND strpos(customer_name, $2) > 0")
	assert.NotContains(t, q, "LIKE")
	assert.Equal(t, []any{entity.ApprovalStatusPending, "100%_株式会社"}, args)
}

func TestMigrations_Embebidas(t *testing.T) {
	for _, name := range []string{
		"migrations/001_init.up.sql", "migrations/001_init.down.sql",
		"migrations/002_billing_approval.up.sql", "migrations/002_billing_approval.down.sql",
	} {
		_, err := migrationFS.ReadFile(name)
		assert.NoError(t, err, name)
	}
	script, err := migrationFS.ReadFile("migrations/001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(script), "performance_user_month_unique")
}

func TestMigrationResult_Changed(t *testing.T) {
	assert.False(t, MigrationResult{From: 2, To: 2}.Changed())
	assert.True(t, MigrationResult{From: 0, To: 2}.Changed())
}
