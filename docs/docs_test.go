package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/taller-api/docs"
)

func TestSwaggerRegistrado(t *testing.T) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err, "el documento debe estar registrado")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed), "el template debe producir JSON válido")

	paths, ok := parsed["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/api/auth/login", "/api/jobs/{id}", "/api/materials", "/api/spareparts/summary/monthly"} {
		assert.Contains(t, paths, p)
	}
	info := parsed["info"].(map[string]any)
	assert.Equal(t, "Taller API", info["title"])
}
