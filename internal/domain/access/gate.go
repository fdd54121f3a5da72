// Package access implementa la compuerta de autorización: traduce
// (rol, recurso, acción) a permitir/denegar con un alcance.
//
// La compuerta es pura (sin I/O). Los casos de uso la consultan antes de tocar el
// almacenamiento, de modo que una denegación nunca produce efectos secundarios.
package access

import (
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
)

// Resource recurso protegido.
type Resource string

const (
	ResourceUser        Resource = "users"
	ResourceSales       Resource = "sales"
	ResourcePerformance Resource = "performance"
	ResourceBilling     Resource = "billing"
)

// Action acción sobre un recurso.
type Action string

const (
	ActionList    Action = "list"
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionSend    Action = "send"
	ActionSummary Action = "summary"
	ActionApprove Action = "approve"
)

// Scope alcance de un permiso concedido.
type Scope int

const (
	ScopeNone       Scope = iota
	ScopeSelf             // solo el propio registro de usuario
	ScopeDepartment       // registros del departamento del llamador
	ScopeAll              // sin restricción
)

type rule struct {
	resource Resource
	action   Action
}

// Policy tabla rol → (recurso, acción) → alcance. Lo que no aparece está denegado.
type Policy map[string]map[rule]Scope

// DefaultPolicy tabla de permisos del sistema:
//   - admin: todas las acciones sobre todos los recursos.
//   - user: lectura de ventas/rendimiento de su departamento, lectura y edición limitada
//     de su propio usuario, sin acceso a facturación.
func DefaultPolicy() Policy {
	user := map[rule]Scope{
		{ResourceSales, ActionList}:          ScopeDepartment,
		{ResourceSales, ActionRead}:          ScopeDepartment,
		{ResourceSales, ActionSummary}:       ScopeDepartment,
		{ResourcePerformance, ActionList}:    ScopeDepartment,
		{ResourcePerformance, ActionRead}:    ScopeDepartment,
		{ResourcePerformance, ActionSummary}: ScopeDepartment,
		{ResourceUser, ActionRead}:           ScopeSelf,
		{ResourceUser, ActionUpdate}:         ScopeSelf,
	}
	admin := map[rule]Scope{}
	for _, res := range []Resource{ResourceUser, ResourceSales, ResourcePerformance, ResourceBilling} {
		for _, act := range []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionSend, ActionSummary, ActionApprove} {
			admin[rule{res, act}] = ScopeAll
		}
	}
	return Policy{
		entity.RoleAdmin: admin,
		entity.RoleUser:  user,
	}
}

// Grant permiso concedido para una identidad.
type Grant struct {
	Scope    Scope
	identity entity.Identity
}

// Gate compuerta de autorización.
type Gate struct {
	policy Policy
}

// NewGate construye la compuerta con la política por defecto.
func NewGate() *Gate {
	return &Gate{policy: DefaultPolicy()}
}

// NewGateWithPolicy construye la compuerta con una política explícita.
func NewGateWithPolicy(p Policy) *Gate {
	return &Gate{policy: p}
}

// Check devuelve el permiso o domain.ErrForbidden.
func (g *Gate) Check(id entity.Identity, res Resource, act Action) (Grant, error) {
	scope := g.policy[id.Role][rule{res, act}]
	if scope == ScopeNone {
		return Grant{}, domain.ErrForbidden
	}
	return Grant{Scope: scope, identity: id}, nil
}

// Department devuelve el departamento al que queda restringido el permiso ("" = todos).
func (g Grant) Department() string {
	if g.Scope == ScopeDepartment {
		return g.identity.Department
	}
	return ""
}

// AllowsDepartment verifica un registro ya cargado contra el alcance del permiso.
func (g Grant) AllowsDepartment(department string) error {
	switch g.Scope {
	case ScopeAll:
		return nil
	case ScopeDepartment:
		if department == g.identity.Department {
			return nil
		}
	}
	return domain.ErrForbidden
}

// AllowsUser verifica que el usuario objetivo esté dentro del alcance.
func (g Grant) AllowsUser(userID string) error {
	switch g.Scope {
	case ScopeAll:
		return nil
	case ScopeSelf:
		if userID == g.identity.UserID {
			return nil
		}
	}
	return domain.ErrForbidden
}
