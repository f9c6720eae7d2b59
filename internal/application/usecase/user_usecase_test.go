package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

func TestListEmployees(t *testing.T) {
	store := memory.NewStore()
	a := seedUsers(t, store)
	uc := usecase.NewUserUseCase(store.Repos().Users)

	list, err := uc.ListEmployees(context.Background(), a.manager)
	require.NoError(t, err)
	require.Len(t, list, 2, "solo employees, sin el manager")
	assert.Equal(t, "Ocho", list[0].Name, "ordenados por nombre")

	_, err = uc.ListEmployees(context.Background(), a.emp7)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
