package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/pkg/logger"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Named("auth").Info().Int64("user_id", 7).Msg("login correcto")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "auth", line["component"])
	assert.Equal(t, float64(7), line["user_id"])
	assert.Equal(t, "login correcto", line["message"])
}

func TestWithFields_CamposFijos(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	base.WithFields(map[string]string{"request_id": "abc", "method": "GET"}).Error().Msg("fallo")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, "GET", line["method"])

	buf.Reset()
	base.Info().Msg("sin campos")
	assert.NotContains(t, buf.String(), "request_id", "el logger base no se modifica")
}

func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("no debe salir")
	assert.Empty(t, buf.String())

	log.Warn().Msg("sí debe salir")
	assert.Contains(t, buf.String(), "sí debe salir")
}
