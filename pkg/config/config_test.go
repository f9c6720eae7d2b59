package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.SessionModeToken, cfg.Session.Mode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL(), "los tokens duran 24h por defecto")
	assert.True(t, cfg.Policy.AllowNegativeInventory, "por defecto se permite inventario negativo")
	assert.False(t, cfg.Policy.StrictFieldFilter, "por defecto los campos no permitidos se descartan en silencio")
	assert.Equal(t, 5, cfg.RateLimit.LoginRequests)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("SESSION_MODE", "COOKIE")
	t.Setenv("SESSION_LIFETIME_MINUTES", "30")
	t.Setenv("STRICT_FIELD_FILTER", "true")
	t.Setenv("INVENTORY_ALLOW_NEGATIVE", "false")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.SessionModeCookie, cfg.Session.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
	assert.True(t, cfg.Policy.StrictFieldFilter)
	assert.False(t, cfg.Policy.AllowNegativeInventory)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_TokenSinSecretoFalla(t *testing.T) {
	t.Setenv("SESSION_MODE", "token")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err, "modo token sin JWT_SECRET debe rechazarse")
}

func TestValidate_ModoDesconocido(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Mode: "ldap"}}
	assert.Error(t, cfg.Validate())
}

func TestDSN_EscapaPassword(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "taller", Password: "p@ss:word", DBName: "taller", SSLMode: "disable"}
	assert.Equal(t, "postgres://taller:p%40ss%3Aword@db:5432/taller?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://otro@host/db"
	assert.Equal(t, "postgres://otro@host/db", db.ConnectionString(), "DATABASE_URL tiene prioridad")
}
