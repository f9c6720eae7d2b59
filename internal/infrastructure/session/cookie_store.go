package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

var _ auth.SessionStore = (*CookieStore)(nil)

const (
	keyUserID    = "user_id"
	keyCreatedAt = "created_at"
)

// CookieStore sesiones con estado en servidor: el cliente solo guarda un id opaco en una
// cookie y los datos viven en un scs.Store (pgxstore en producción, memstore en pruebas).
type CookieStore struct {
	store    scs.Store
	codec    scs.Codec
	lifetime time.Duration
	now      func() time.Time
}

// NewCookieStore construye el backend de cookies sobre store.
func NewCookieStore(store scs.Store, lifetime time.Duration) *CookieStore {
	if lifetime <= 0 {
		lifetime = 12 * time.Hour
	}
	return &CookieStore{store: store, codec: scs.GobCodec{}, lifetime: lifetime, now: time.Now}
}

// Create guarda una sesión nueva para user.
func (s *CookieStore) Create(_ context.Context, user *entity.User) (*auth.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := s.now()
	expiry := now.Add(s.lifetime)
	b, err := s.codec.Encode(expiry, map[string]interface{}{
		keyUserID:    user.ID,
		keyCreatedAt: now.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("session: codificar: %w", err)
	}
	if err := s.store.Commit(token, b, expiry); err != nil {
		return nil, fmt.Errorf("session: guardar: %w", err)
	}
	return &auth.Session{
		Token:     token,
		Kind:      auth.SessionKindCookie,
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: expiry,
	}, nil
}

// Lookup busca la sesión del id de cookie.
func (s *CookieStore) Lookup(_ context.Context, token string) (int64, error) {
	b, found, err := s.store.Find(token)
	if err != nil {
		return 0, fmt.Errorf("session: buscar: %w", err)
	}
	if !found {
		return 0, domain.ErrUnauthorized
	}
	deadline, values, err := s.codec.Decode(b)
	if err != nil || !s.now().Before(deadline) {
		return 0, domain.ErrUnauthorized
	}
	userID, ok := values[keyUserID].(int64)
	if !ok || userID <= 0 {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}

// Revoke borra la sesión. Borrar una sesión inexistente no es error.
func (s *CookieStore) Revoke(_ context.Context, token string) error {
	if err := s.store.Delete(token); err != nil {
		return fmt.Errorf("session: borrar: %w", err)
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: generar token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
