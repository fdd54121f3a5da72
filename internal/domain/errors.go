package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Cada uno representa un "kind" estable que la capa HTTP traduce a un código de respuesta.
var (
	ErrNotFound           = errors.New("対象が見つかりません")
	ErrInvalidInput       = errors.New("入力内容が不正です")
	ErrConflict           = errors.New("現在の状態と競合しています")
	ErrForbidden          = errors.New("権限がありません")
	ErrInvalidCredentials = errors.New("ユーザー名またはパスワードが違います")
	ErrInvalidSession     = errors.New("セッションが無効または期限切れです")
)

// ValidationError describe un campo fuera de rango o mal formado. Nunca se persiste nada
// cuando se devuelve este error.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ConflictError describe una violación de unicidad, referencial o de transición de estado.
type ConflictError struct {
	Reason string
}

// NewConflictError construye un conflicto con un motivo legible.
func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

func (e *ConflictError) Error() string { return e.Reason }

// Unwrap permite errors.Is(err, ErrConflict).
func (e *ConflictError) Unwrap() error { return ErrConflict }
