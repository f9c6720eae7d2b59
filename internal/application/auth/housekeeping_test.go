package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
)

func TestHousekeeping_PurgaSoloExpirados(t *testing.T) {
	ctx := context.Background()
	revoked := memory.NewStore().RevokedTokens()
	require.NoError(t, revoked.Revoke(ctx, "viejo", 1, time.Now().Add(-time.Hour)))
	require.NoError(t, revoked.Revoke(ctx, "vigente", 1, time.Now().Add(time.Hour)))

	auth.NewHousekeepingService(revoked, logger.Nop(), time.Minute).RunOnce(ctx)

	old, err := revoked.IsRevoked(ctx, "viejo")
	require.NoError(t, err)
	assert.False(t, old, "la entrada expirada debe purgarse")

	current, err := revoked.IsRevoked(ctx, "vigente")
	require.NoError(t, err)
	assert.True(t, current, "la entrada vigente debe seguir revocada")
}

func TestHousekeeping_StartStop(t *testing.T) {
	svc := auth.NewHousekeepingService(memory.NewStore().RevokedTokens(), logger.Nop(), time.Hour)
	svc.Start()
	svc.Stop()
}
