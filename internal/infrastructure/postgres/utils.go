package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/repository"
)

// Querier abstrae pool y tx para que los repositorios funcionen con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// invalidDataMessages SQLSTATE de datos que el cliente puede corregir: check_violation,
// numeric_value_out_of_range, invalid_text_representation y string_data_right_truncation.
var invalidDataMessages = map[string]string{
	"23514": "入力値が制約に違反しています",
	"22003": "数値が許容範囲を超えています",
	"22P02": "入力値の形式が不正です",
	"22001": "入力値が長すぎます",
}

// writeError traduce errores de escritura a errores de dominio.
func writeError(op string, err error, uniqueReason, fkReason string) error {
	switch {
	case isUniqueViolation(err):
		return domain.NewConflictError(uniqueReason)
	case isForeignKeyViolation(err):
		return domain.NewConflictError(fkReason)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := invalidDataMessages[pgErr.Code]; ok {
			return domain.NewValidationError(pgErr.ColumnName, msg)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validID indica si id tiene forma de UUID. Los ids que no la tienen no existen
// en ninguna tabla y no llegan a la base.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// nullableID guarda "" como NULL en columnas de referencia opcionales.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// affected devuelve ErrNotFound si la sentencia no tocó ninguna fila.
func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// where acumula condiciones con placeholders numerados.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// paged agrega LIMIT/OFFSET. Limit 0 = sin límite.
func (w *where) paged(p repository.Page) string {
	var b strings.Builder
	if p.Limit > 0 {
		w.args = append(w.args, p.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(w.args))
	}
	if p.Offset > 0 {
		w.args = append(w.args, p.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(w.args))
	}
	return b.String()
}
