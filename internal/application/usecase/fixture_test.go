package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festal/festal-backend/internal/domain/access"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
	"github.com/festal/festal-backend/internal/infrastructure/memory"
)

const (
	deptConsul  = "コンサル事業部"
	deptTelecom = "通信事業部"
)

type fixture struct {
	store  *memory.Store
	gate   *access.Gate
	admin  entity.Identity
	member entity.Identity
	other  entity.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  memory.New(),
		gate:   access.NewGate(),
		admin:  entity.Identity{UserID: "u-admin", Username: "admin", Role: entity.RoleAdmin, Department: "管理部"},
		member: entity.Identity{UserID: "u-tanaka", Username: "tanaka", Role: entity.RoleUser, Department: deptConsul},
		other:  entity.Identity{UserID: "u-sato", Username: "sato", Role: entity.RoleUser, Department: deptTelecom},
	}
	now := time.Now().UTC()
	require.NoError(t, f.store.Run(context.Background(), func(r repository.Repos) error {
		for _, id := range []entity.Identity{f.admin, f.member, f.other} {
			err := r.Users.Create(context.Background(), &entity.User{
				ID: id.UserID, Username: id.Username, Email: id.Username + "@festal.jp",
				PasswordHash: "x", Role: id.Role, Department: id.Department,
				CreatedAt: now, UpdatedAt: now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	}))
	return f
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "esperado %d, obtenido %s", want, got)
}
