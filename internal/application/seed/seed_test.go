package seed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taller-api/internal/application/seed"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/password"
)

func TestSeeder_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	s := seed.NewSeeder(memory.NewTxRunner(store), hasher, logger.Nop())

	first, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Users: 2, Jobs: 4, Materials: 6, SpareParts: 4}, first)

	second, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{}, second, "la segunda ejecución no crea nada")

	mgr, err := store.Repos().Users.GetByEmail(ctx, "manager@example.com")
	require.NoError(t, err)
	require.NotNil(t, mgr)
	assert.Equal(t, entity.RoleManager, mgr.Role)
	assert.True(t, hasher.Verify("manager123", mgr.PasswordHash), "la contraseña se guarda hasheada")
	assert.NotEqual(t, "manager123", mgr.PasswordHash)
}

func TestParseMaterialsXML_Latin1(t *testing.T) {
	// "Tuercas Ñ" en ISO-8859-1: Ñ = 0xD1
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?><inventario>`)
	buf.WriteString(`<material nombre="Tuercas `)
	buf.WriteByte(0xD1)
	buf.WriteString(`" cantidad="120" minimo="20" unidad="pcs"/>`)
	buf.WriteString(`<material nombre="Grasa" cantidad="3"/>`)
	buf.WriteString(`<material nombre=" " cantidad="9"/>`)
	buf.WriteString(`</inventario>`)

	mats, err := seed.ParseMaterialsXML(&buf)
	require.NoError(t, err)
	require.Len(t, mats, 2, "las filas sin nombre se omiten")
	assert.Equal(t, "Tuercas Ñ", mats[0].MaterialName)
	assert.Equal(t, 20, mats[0].MinimumLevel)
	assert.Equal(t, entity.DefaultMinimumLevel, mats[1].MinimumLevel)
	assert.Equal(t, entity.DefaultUnit, mats[1].Unit)
}

func TestImportMaterials_OmiteExistentes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)

	mats, err := seed.ParseMaterialsXML(strings.NewReader(
		`<inventario><material nombre="Grasa" cantidad="3"/><material nombre="Aceite" cantidad="8"/></inventario>`))
	require.NoError(t, err)

	n, err := seed.ImportMaterials(ctx, tx, mats)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	again, err := seed.ParseMaterialsXML(strings.NewReader(`<inventario><material nombre="grasa" cantidad="1"/></inventario>`))
	require.NoError(t, err)
	n, err = seed.ImportMaterials(ctx, tx, again)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "el nombre se compara sin distinguir mayúsculas")
}
