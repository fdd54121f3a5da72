// Package memory implementa los puertos de persistencia en memoria con el mismo
// contrato transaccional que el adaptador PostgreSQL: cada Run trabaja sobre una
// copia del estado que solo se publica si fn termina sin error y el contexto sigue vivo.
// Las lecturas ReadOnly ven una instantánea inmutable.
package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// ErrReadOnly escritura dentro de una transacción de solo lectura.
var ErrReadOnly = errors.New("memory: transacción de solo lectura")

type state struct {
	users    map[string]entity.User
	sales    map[string]entity.SalesRecord
	perf     map[string]entity.PerformanceRecord
	billing  map[string]entity.BillingRecord
	sessions map[string]entity.Session
}

func newState() *state {
	return &state{
		users:    map[string]entity.User{},
		sales:    map[string]entity.SalesRecord{},
		perf:     map[string]entity.PerformanceRecord{},
		billing:  map[string]entity.BillingRecord{},
		sessions: map[string]entity.Session{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.perf {
		c.perf[k] = v
	}
	for k, v := range s.billing {
		c.billing[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	return c
}

// Store almacén en memoria. Las transacciones de escritura se serializan;
// las lecturas no esperan a los escritores.
type Store struct {
	writeMu sync.Mutex
	current atomic.Pointer[state]
}

// New construye un almacén vacío.
func New() *Store {
	s := &Store{}
	s.current.Store(newState())
	return s
}

// Run ejecuta fn sobre una copia y la publica solo si no hubo error.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	work := s.current.Load().clone()
	if err := fn(reposFor(work, false)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.current.Store(work)
	return nil
}

// ReadOnly ejecuta fn sobre la última versión confirmada. Esa versión nunca se muta
// después de publicarse, por lo que es una instantánea consistente.
func (s *Store) ReadOnly(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(reposFor(s.current.Load(), true))
}

func reposFor(st *state, ro bool) repository.Repos {
	return repository.Repos{
		Users:       &userRepo{st: st, ro: ro},
		Sales:       &salesRepo{st: st, ro: ro},
		Performance: &performanceRepo{st: st, ro: ro},
		Billing:     &billingRepo{st: st, ro: ro},
		Sessions:    &sessionRepo{st: st, ro: ro},
	}
}

func paginate[T any](items []T, p repository.Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return items[:0]
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
