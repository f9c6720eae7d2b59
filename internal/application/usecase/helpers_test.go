package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain/authz"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type actors struct {
	manager authz.Actor
	emp7    authz.Actor
	emp8    authz.Actor
}

// seedUsers crea un manager y dos employees en el almacén.
func seedUsers(t *testing.T, store *memory.Store) actors {
	t.Helper()
	ctx := context.Background()
	users := store.Repos().Users
	mk := func(email, name, role string) authz.Actor {
		u := &entity.User{Email: email, Name: name, PasswordHash: "x", Role: role}
		require.NoError(t, users.Create(ctx, u))
		return authz.Actor{ID: u.ID, Role: u.Role}
	}
	return actors{
		manager: mk("manager@example.com", "Manager", entity.RoleManager),
		emp7:    mk("siete@example.com", "Siete", entity.RoleEmployee),
		emp8:    mk("ocho@example.com", "Ocho", entity.RoleEmployee),
	}
}

// payload convierte un mapa a la forma que reciben los Update.
func payload(t *testing.T, m map[string]interface{}) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		out[k] = b
	}
	return out
}

func ptr[T any](v T) *T { return &v }
