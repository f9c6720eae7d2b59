package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexedwards/scs/pgxstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taller-api/internal/application/seed"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/internal/infrastructure/session"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/password"
)

// setupPostgres levanta un PostgreSQL efímero, aplica las migraciones y devuelve el pool.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("prueba de integración: se omite con -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "taller",
			"POSTGRES_PASSWORD": "taller",
			"POSTGRES_DB":       "taller",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://taller:taller@%s:%s/taller?sslmode=disable", host, port.Port())
	require.NoError(t, postgres.ApplyMigrations(dsn))
	require.NoError(t, postgres.ApplyMigrations(dsn), "aplicar dos veces no es error")

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgres_Integracion(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	tx := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)

	res, err := seed.NewSeeder(tx, password.NewBcryptHasher(bcrypt.MinCost), logger.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Users)

	emp, err := repos.Users.GetByEmail(ctx, "employee@example.com")
	require.NoError(t, err)
	require.NotNil(t, emp)

	upper, err := repos.Users.GetByEmail(ctx, "EMPLOYEE@example.com")
	require.NoError(t, err)
	assert.Nil(t, upper, "la búsqueda por email distingue mayúsculas")

	t.Run("email duplicado", func(t *testing.T) {
		err := repos.Users.Create(ctx, &entity.User{Email: "Manager@Example.com", Name: "X", PasswordHash: "x", Role: entity.RoleEmployee})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("jobs filtrados y con nombre", func(t *testing.T) {
		mine, err := repos.Jobs.List(ctx, repository.JobFilter{AssignedTo: &emp.ID})
		require.NoError(t, err)
		assert.Len(t, mine, 3)
		for _, j := range mine {
			require.NotNil(t, j.AssignedName)
			assert.Equal(t, "Employee User", *j.AssignedName)
		}
		all, err := repos.Jobs.List(ctx, repository.JobFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("update en tx con bloqueo", func(t *testing.T) {
		all, err := repos.Jobs.List(ctx, repository.JobFilter{})
		require.NoError(t, err)
		id := all[0].ID

		err = tx.Run(ctx, func(r repository.Repos) error {
			j, err := r.Jobs.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			j.Progress = 77
			j.UpdatedAt = time.Now()
			return r.Jobs.Update(ctx, j)
		})
		require.NoError(t, err)

		got, err := repos.Jobs.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 77, got.Progress)
	})

	t.Run("rollback descarta cambios", func(t *testing.T) {
		before, err := repos.Materials.Count(ctx)
		require.NoError(t, err)
		boom := errors.New("boom")
		err = tx.Run(ctx, func(r repository.Repos) error {
			if err := r.Materials.Create(ctx, &entity.Material{MaterialName: "Temporal", Quantity: 1, MinimumLevel: 5, Unit: "pcs"}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		after, err := repos.Materials.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("materiales con stock bajo", func(t *testing.T) {
		low, err := repos.Materials.List(ctx, repository.MaterialFilter{LowStockOnly: true})
		require.NoError(t, err)
		assert.Len(t, low, 3, "M16, Hydraulic Oil y Welding Rods")
	})

	t.Run("resumen mensual", func(t *testing.T) {
		rows, err := repos.SpareParts.MonthlySummary(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, time.Now().UTC().Format("2006-01"), rows[0].Month)
		assert.Equal(t, "Drive Belt", rows[0].PartName)
	})

	t.Run("resumen mensual agrupa en UTC", func(t *testing.T) {
		conn, err := pool.Acquire(ctx)
		require.NoError(t, err)
		defer conn.Release()
		_, err = conn.Exec(ctx, `SET TimeZone = 'America/Bogota'`)
		require.NoError(t, err)
		defer func() { _, _ = conn.Exec(ctx, `RESET TimeZone`) }()

		local := postgres.NewRepos(conn)
		// 2026-02-01T02:00Z es todavía 2026-01-31 en Bogotá.
		p := &entity.SparePart{PartName: "Fin de Mes", QuantityUsed: 2, UsedBy: emp.ID, UsedDate: time.Date(2026, 2, 1, 2, 0, 0, 0, time.UTC)}
		require.NoError(t, local.SpareParts.Create(ctx, p))

		rows, err := local.SpareParts.MonthlySummary(ctx)
		require.NoError(t, err)
		var found *entity.MonthlyUsage
		for i := range rows {
			if rows[i].PartName == "Fin de Mes" {
				found = &rows[i]
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "2026-02", found.Month, "el mes se calcula en UTC sin importar la zona de la sesión")
		assert.Equal(t, int64(2), found.TotalUsed)

		require.NoError(t, repos.SpareParts.Delete(ctx, p.ID))
	})

	t.Run("delete inexistente", func(t *testing.T) {
		assert.ErrorIs(t, repos.Jobs.Delete(ctx, 999999), domain.ErrNotFound)
	})

	t.Run("lista de revocación", func(t *testing.T) {
		revoked := postgres.NewRevokedTokenRepository(pool)
		require.NoError(t, revoked.Revoke(ctx, "jti-viejo", emp.ID, time.Now().Add(-time.Hour)))
		require.NoError(t, revoked.Revoke(ctx, "jti-viejo", emp.ID, time.Now().Add(-time.Hour)), "idempotente")
		require.NoError(t, revoked.Revoke(ctx, "jti-nuevo", emp.ID, time.Now().Add(time.Hour)))

		n, err := revoked.DeleteExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		ok, err := revoked.IsRevoked(ctx, "jti-nuevo")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sesiones de cookie en pgxstore", func(t *testing.T) {
		cookies := session.NewCookieStore(pgxstore.New(pool), time.Hour)
		sess, err := cookies.Create(ctx, emp)
		require.NoError(t, err)

		userID, err := cookies.Lookup(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, emp.ID, userID)

		require.NoError(t, cookies.Revoke(ctx, sess.Token))
		_, err = cookies.Lookup(ctx, sess.Token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
