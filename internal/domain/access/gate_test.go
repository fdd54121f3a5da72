package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
)

var (
	admin  = entity.Identity{UserID: "u-admin", Role: entity.RoleAdmin, Department: "管理部"}
	member = entity.Identity{UserID: "u-1", Role: entity.RoleUser, Department: "コンサル事業部"}
)

func TestGate_AdminTodoPermitido(t *testing.T) {
	g := access.NewGate()
	for _, res := range []access.Resource{access.ResourceUser, access.ResourceSales, access.ResourcePerformance, access.ResourceBilling} {
		for _, act := range []access.Action{access.ActionList, access.ActionRead, access.ActionCreate, access.ActionUpdate, access.ActionDelete, access.ActionApprove} {
			grant, err := g.Check(admin, res, act)
			require.NoError(t, err, "%s %s", res, act)
			assert.Equal(t, access.ScopeAll, grant.Scope)
			assert.Equal(t, "", grant.Department())
		}
	}
}

func TestGate_UserSinEscrituras(t *testing.T) {
	g := access.NewGate()
	for _, res := range []access.Resource{access.ResourceSales, access.ResourcePerformance, access.ResourceBilling, access.ResourceUser} {
		for _, act := range []access.Action{access.ActionCreate, access.ActionDelete} {
			_, err := g.Check(member, res, act)
			assert.ErrorIs(t, err, domain.ErrForbidden, "%s %s", res, act)
		}
	}
}

func TestGate_UserSinFacturacion(t *testing.T) {
	g := access.NewGate()
	for _, act := range []access.Action{access.ActionList, access.ActionRead, access.ActionSummary, access.ActionSend, access.ActionApprove} {
		_, err := g.Check(member, access.ResourceBilling, act)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
}

func TestGate_UserLecturaDepartamento(t *testing.T) {
	g := access.NewGate()
	grant, err := g.Check(member, access.ResourceSales, access.ActionRead)
	require.NoError(t, err)
	assert.Equal(t, access.ScopeDepartment, grant.Scope)
	assert.Equal(t, "コンサル事業部", grant.Department())

	assert.NoError(t, grant.AllowsDepartment("コンサル事業部"))
	assert.ErrorIs(t, grant.AllowsDepartment("通信事業部"), domain.ErrForbidden)
}

func TestGate_UserSoloPropioUsuario(t *testing.T) {
	g := access.NewGate()
	grant, err := g.Check(member, access.ResourceUser, access.ActionRead)
	require.NoError(t, err)
	assert.NoError(t, grant.AllowsUser("u-1"))
	assert.ErrorIs(t, grant.AllowsUser("u-2"), domain.ErrForbidden)

	_, err = g.Check(member, access.ResourceUser, access.ActionList)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGate_RolDesconocido(t *testing.T) {
	g := access.NewGate()
	_, err := g.Check(entity.Identity{Role: "auditor"}, access.ResourceSales, access.ActionRead)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
