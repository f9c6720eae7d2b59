package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/internal/infrastructure/session"
)

var employee = &entity.User{ID: 7, Email: "employee@example.com", Role: entity.RoleEmployee}

// ──────────────────────────────────────────────────────────────────────────────
// TokenStore
// ──────────────────────────────────────────────────────────────────────────────

func newTokenStore(t *testing.T) *session.TokenStore {
	t.Helper()
	s, err := session.NewTokenStore(session.TokenConfig{
		Secret: "test-secret-key-for-unit-tests",
		Issuer: "taller-api-test",
		TTL:    time.Hour,
	}, memory.NewStore().RevokedTokens())
	require.NoError(t, err)
	return s
}

func TestTokenStore_CreateYLookup(t *testing.T) {
	ctx := context.Background()
	s := newTokenStore(t)

	sess, err := s.Create(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, auth.SessionKindBearer, sess.Kind)
	assert.Equal(t, int64(7), sess.UserID)
	assert.True(t, sess.ExpiresAt.After(sess.CreatedAt))

	userID, err := s.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestTokenStore_RevokeInvalidaElToken(t *testing.T) {
	ctx := context.Background()
	s := newTokenStore(t)
	sess, err := s.Create(ctx, employee)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, sess.Token))
	_, err = s.Lookup(ctx, sess.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un token revocado no debe resolver")

	assert.NoError(t, s.Revoke(ctx, sess.Token), "revocar dos veces no es error")
}

func TestTokenStore_TokenInvalido(t *testing.T) {
	s := newTokenStore(t)
	_, err := s.Lookup(context.Background(), "token.invalido.aqui")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenStore_SecretVacio(t *testing.T) {
	_, err := session.NewTokenStore(session.TokenConfig{}, memory.NewStore().RevokedTokens())
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// CookieStore
// ──────────────────────────────────────────────────────────────────────────────

func TestCookieStore_CreateLookupRevoke(t *testing.T) {
	ctx := context.Background()
	s := session.NewCookieStore(memstore.New(), time.Hour)

	sess, err := s.Create(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, auth.SessionKindCookie, sess.Kind)
	assert.Len(t, sess.Token, 43, "32 bytes en base64 sin relleno")

	userID, err := s.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	require.NoError(t, s.Revoke(ctx, sess.Token))
	_, err = s.Lookup(ctx, sess.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "la sesión borrada no debe resolver")
}

func TestCookieStore_IDDesconocido(t *testing.T) {
	s := session.NewCookieStore(memstore.New(), time.Hour)
	_, err := s.Lookup(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCookieStore_IDsDistintos(t *testing.T) {
	ctx := context.Background()
	s := session.NewCookieStore(memstore.New(), time.Hour)
	a, err := s.Create(ctx, employee)
	require.NoError(t, err)
	b, err := s.Create(ctx, employee)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}
