package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festal/festal-backend/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y
// hace Commit o Rollback. Un contexto cancelado antes del commit siempre termina en rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// ReadOnly ejecuta fn en una instantánea REPEATABLE READ de solo lectura.
func (r *TxRunner) ReadOnly(ctx context.Context, fn func(repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback sobre contexto propio: el del request puede estar cancelado.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func reposFor(q Querier) repository.Repos {
	return repository.Repos{
		Users:       NewUserRepository(q),
		Sales:       NewSalesRepository(q),
		Performance: NewPerformanceRepository(q),
		Billing:     NewBillingRepository(q),
		Sessions:    NewSessionRepository(q),
	}
}
