package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationResult versión del esquema antes y después de Migrate.
type MigrationResult struct {
	From uint
	To   uint
}

// Changed indica si se aplicó alguna migración.
func (r MigrationResult) Changed() bool { return r.From != r.To }

// Migrate aplica las migraciones up pendientes de migrations/ (NNN_nombre.up.sql)
// con golang-migrate. La versión queda en schema_migrations. Un esquema marcado
// dirty por una migración fallida devuelve error y requiere intervención manual.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (MigrationResult, error) {
	m, err := newMigrator(pool)
	if err != nil {
		return MigrationResult{}, err
	}
	defer m.Close()

	var res MigrationResult
	if res.From, err = currentVersion(m); err != nil {
		return res, err
	}

	// Up no recibe contexto: la cancelación se traduce en GracefulStop
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return res, fmt.Errorf("aplicar migraciones: %w", err)
	}
	if res.To, err = currentVersion(m); err != nil {
		return res, err
	}
	return res, ctx.Err()
}

func newMigrator(pool *pgxpool.Pool) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones embebidas: %w", err)
	}
	driver, err := pgxmigrate.WithInstance(stdlib.OpenDBFromPool(pool), &pgxmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("driver de migraciones: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("crear migrador: %w", err)
	}
	return m, nil
}

func currentVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("versión del esquema: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("esquema en versión %d marcado dirty", v)
	}
	return v, nil
}
