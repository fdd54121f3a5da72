package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/application/usecase"
	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/incentive"
)

func newPerformanceUseCase(f *fixture) *usecase.PerformanceUseCase {
	return usecase.NewPerformanceUseCase(f.store, f.gate, incentive.NewRule(incentive.DefaultRate, nil, nil))
}

func TestPerformance_CreateDerivaIncentivo(t *testing.T) {
	f := newFixture(t)
	uc := newPerformanceUseCase(f)

	rec, err := uc.Create(context.Background(), f.admin, dto.CreatePerformanceRequest{
		UserID: f.member.UserID, Month: "2024-01", SalesAmount: dec(500000),
	})
	require.NoError(t, err)
	assertDecimal(t, 50000, rec.IncentiveAmount)
	assert.Equal(t, deptConsul, rec.Department)
	assert.Equal(t, "tanaka", rec.Username)
	assert.Equal(t, "2024-01", rec.Month)
}

func TestPerformance_DuplicadoUsuarioMes(t *testing.T) {
	f := newFixture(t)
	uc := newPerformanceUseCase(f)
	in := dto.CreatePerformanceRequest{UserID: f.member.UserID, Month: "2024-01", SalesAmount: dec(100)}

	_, err := uc.Create(context.Background(), f.admin, in)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), f.admin, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPerformance_UpdateRecalculaIncentivo(t *testing.T) {
	f := newFixture(t)
	uc := newPerformanceUseCase(f)
	ctx := context.Background()

	rec, err := uc.Create(ctx, f.admin, dto.CreatePerformanceRequest{UserID: f.member.UserID, Month: "2024-01", SalesAmount: dec(500000)})
	require.NoError(t, err)

	sales := dec(800000)
	updated, err := uc.Update(ctx, f.admin, rec.ID, dto.UpdatePerformanceRequest{SalesAmount: &sales})
	require.NoError(t, err)
	assertDecimal(t, 80000, updated.IncentiveAmount)
}

func TestPerformance_UpdateMesOcupado(t *testing.T) {
	f := newFixture(t)
	uc := newPerformanceUseCase(f)
	ctx := context.Background()

	_, err := uc.Create(ctx, f.admin, dto.CreatePerformanceRequest{UserID: f.member.UserID, Month: "2024-01", SalesAmount: dec(1)})
	require.NoError(t, err)
	feb, err := uc.Create(ctx, f.admin, dto.CreatePerformanceRequest{UserID: f.member.UserID, Month: "2024-02", SalesAmount: dec(1)})
	require.NoError(t, err)

	jan := "2024-01"
	_, err = uc.Update(ctx, f.admin, feb.ID, dto.UpdatePerformanceRequest{Month: &jan})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPerformance_Validaciones(t *testing.T) {
	f := newFixture(t)
	uc := newPerformanceUseCase(f)
	ctx := context.Background()

	_, err := uc.Create(ctx, f.admin, dto.CreatePerformanceRequest{UserID: "no-existe", Month: "2024-01", SalesAmount: dec(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, f.admin, dto.CreatePerformanceRequest{UserID: f.member.UserID, Month: "2024-13", SalesAmount: dec(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, f.admin, dto.CreatePerformanceRequest{UserID: f.member.UserID, Month: "2024-01", SalesAmount: dec(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPerformance_ListByUserConAlcance(t *testing.T) {
	f := newFixture(t)
	uc := newPerformanceUseCase(f)
	ctx := context.Background()

	_, err := uc.Create(ctx, f.admin, dto.CreatePerformanceRequest{UserID: f.other.UserID, Month: "2024-01", SalesAmount: dec(1)})
	require.NoError(t, err)

	all, err := uc.ListByUser(ctx, f.admin, f.other.UserID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)

	// tanaka (コンサル) no ve registros de sato (通信)
	scoped, err := uc.ListByUser(ctx, f.member, f.other.UserID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, scoped.Items)
}
