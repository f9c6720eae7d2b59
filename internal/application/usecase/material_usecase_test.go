package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

func newMaterialUseCase(t *testing.T, opts usecase.MaterialOptions) (*usecase.MaterialUseCase, actors) {
	t.Helper()
	store := memory.NewStore()
	a := seedUsers(t, store)
	return usecase.NewMaterialUseCase(store.Repos().Materials, memory.NewTxRunner(store), opts), a
}

func TestMaterial_CreateConDefaults(t *testing.T) {
	uc, a := newMaterialUseCase(t, usecase.MaterialOptions{AllowNegative: true})
	m, err := uc.Create(context.Background(), a.manager, dto.CreateMaterialRequest{MaterialName: "Engine Oil", Quantity: ptr(20)})
	require.NoError(t, err)

	assert.Equal(t, entity.DefaultMinimumLevel, m.MinimumLevel)
	assert.Equal(t, entity.DefaultUnit, m.Unit)
	assert.False(t, m.LowStock)
}

func TestMaterial_EmployeeNoEscribe(t *testing.T) {
	ctx := context.Background()
	uc, a := newMaterialUseCase(t, usecase.MaterialOptions{AllowNegative: true})
	m, err := uc.Create(ctx, a.manager, dto.CreateMaterialRequest{MaterialName: "Filter", Quantity: ptr(3)})
	require.NoError(t, err)

	_, err = uc.Create(ctx, a.emp7, dto.CreateMaterialRequest{MaterialName: "X", Quantity: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Update(ctx, a.emp7, m.ID, payload(t, map[string]interface{}{"quantity": 99}))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, a.emp7, m.ID), domain.ErrForbidden)

	list, err := uc.List(ctx, a.emp7, false)
	require.NoError(t, err, "cualquier usuario autenticado puede leer")
	assert.Len(t, list, 1)
}

func TestMaterial_UpdateParcialYStockBajo(t *testing.T) {
	ctx := context.Background()
	uc, a := newMaterialUseCase(t, usecase.MaterialOptions{AllowNegative: true})
	oil, err := uc.Create(ctx, a.manager, dto.CreateMaterialRequest{MaterialName: "Engine Oil", Quantity: ptr(20)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, a.manager, dto.CreateMaterialRequest{MaterialName: "Brake Pads", Quantity: ptr(10)})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, a.manager, oil.ID, payload(t, map[string]interface{}{"quantity": 4, "id": 77}))
	require.NoError(t, err)
	assert.Equal(t, oil.ID, updated.ID, "id no es escribible")
	assert.Equal(t, 4, updated.Quantity)
	assert.True(t, updated.LowStock)
	assert.Equal(t, "Engine Oil", updated.MaterialName)

	low, err := uc.List(ctx, a.manager, true)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Engine Oil", low[0].MaterialName)
}

func TestMaterial_CantidadNegativa(t *testing.T) {
	ctx := context.Background()

	strict, a := newMaterialUseCase(t, usecase.MaterialOptions{AllowNegative: false})
	_, err := strict.Create(ctx, a.manager, dto.CreateMaterialRequest{MaterialName: "Oil", Quantity: ptr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	lax, a := newMaterialUseCase(t, usecase.MaterialOptions{AllowNegative: true})
	m, err := lax.Create(ctx, a.manager, dto.CreateMaterialRequest{MaterialName: "Oil", Quantity: ptr(-1)})
	require.NoError(t, err)
	assert.Equal(t, -1, m.Quantity)
}

func TestMaterial_QuantityRequerido(t *testing.T) {
	uc, a := newMaterialUseCase(t, usecase.MaterialOptions{AllowNegative: true})
	_, err := uc.Create(context.Background(), a.manager, dto.CreateMaterialRequest{MaterialName: "Oil"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMaterial_NoEncontrado(t *testing.T) {
	ctx := context.Background()
	uc, a := newMaterialUseCase(t, usecase.MaterialOptions{AllowNegative: true})

	_, err := uc.Get(ctx, a.manager, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(ctx, a.manager, 404, payload(t, map[string]interface{}{"quantity": 1}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, a.manager, 404), domain.ErrNotFound)
}
