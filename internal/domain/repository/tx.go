package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Users       UserRepository
	Sales       SalesRecordRepository
	Performance PerformanceRecordRepository
	Billing     BillingRecordRepository
	Sessions    SessionRepository
}

// TxRunner ejecuta callbacks dentro de una transacción.
//
// Run: lectura/escritura; si fn devuelve error, o el contexto se cancela antes del commit,
// se hace rollback completo y ningún cambio parcial es observable.
// ReadOnly: lectura en una única instantánea consistente (agregaciones).
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
	ReadOnly(ctx context.Context, fn func(r Repos) error) error
}
