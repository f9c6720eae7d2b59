package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

func newSparePartUseCase(t *testing.T) (*usecase.SparePartUseCase, actors) {
	t.Helper()
	store := memory.NewStore()
	a := seedUsers(t, store)
	return usecase.NewSparePartUseCase(store.Repos().SpareParts), a
}

func TestSparePart_UsedByEsElActor(t *testing.T) {
	uc, a := newSparePartUseCase(t)
	p, err := uc.Create(context.Background(), a.emp7, dto.CreateSparePartRequest{PartName: "Spark Plug"})
	require.NoError(t, err)

	assert.Equal(t, a.emp7.ID, p.UsedBy, "used_by siempre es quien registra")
	assert.Equal(t, 1, p.QuantityUsed, "quantity_used por defecto 1")
	require.NotNil(t, p.UsedByName)
	assert.Equal(t, "Siete", *p.UsedByName)
}

func TestSparePart_CantidadInvalida(t *testing.T) {
	uc, a := newSparePartUseCase(t)
	_, err := uc.Create(context.Background(), a.emp7, dto.CreateSparePartRequest{PartName: "Bulb", QuantityUsed: ptr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(context.Background(), a.emp7, dto.CreateSparePartRequest{PartName: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSparePart_ResumenMensual(t *testing.T) {
	ctx := context.Background()
	uc, a := newSparePartUseCase(t)
	for _, in := range []dto.CreateSparePartRequest{
		{PartName: "Spark Plug", QuantityUsed: ptr(2)},
		{PartName: "Spark Plug", QuantityUsed: ptr(3)},
		{PartName: "Air Filter", QuantityUsed: ptr(1)},
	} {
		_, err := uc.Create(ctx, a.emp7, in)
		require.NoError(t, err)
	}

	_, err := uc.MonthlySummary(ctx, a.emp7)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el resumen es solo para managers")

	rows, err := uc.MonthlySummary(ctx, a.manager)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Air Filter", rows[0].PartName, "mismo mes, ordenado por part_name")
	assert.Equal(t, int64(5), rows[1].TotalUsed)
}

func TestSparePart_ResumenMensualEnUTC(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := seedUsers(t, store)
	uc := usecase.NewSparePartUseCase(store.Repos().SpareParts)

	bogota := time.FixedZone("COT", -5*60*60)
	p := &entity.SparePart{PartName: "Fin de Mes", QuantityUsed: 2, UsedBy: a.emp7.ID, UsedDate: time.Date(2026, 1, 31, 21, 0, 0, 0, bogota)}
	require.NoError(t, store.Repos().SpareParts.Create(ctx, p))

	rows, err := uc.MonthlySummary(ctx, a.manager)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-02", rows[0].Month, "31 de enero 21:00 en Bogotá ya es febrero en UTC")
}

func TestSparePart_DeleteSoloManager(t *testing.T) {
	ctx := context.Background()
	uc, a := newSparePartUseCase(t)
	p, err := uc.Create(ctx, a.emp7, dto.CreateSparePartRequest{PartName: "Fuse"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, a.emp7, p.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, a.manager, p.ID))
	_, err = uc.Get(ctx, a.manager, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
