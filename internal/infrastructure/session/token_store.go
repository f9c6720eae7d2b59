// Package session implementa los backends de SessionStore: token firmado con lista de
// revocación y cookie con estado en servidor sobre scs.
package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/taller-api/pkg/jwt"
)

var _ auth.SessionStore = (*TokenStore)(nil)

// TokenConfig parámetros de firma de tokens.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// TokenStore sesiones como JWT HS256 con sub (user id) y jti. Logout agrega el jti a la
// lista de revocación hasta que el token expire.
type TokenStore struct {
	cfg     TokenConfig
	revoked repository.RevokedTokenRepository
	now     func() time.Time
}

// NewTokenStore construye el backend de tokens.
func NewTokenStore(cfg TokenConfig, revoked repository.RevokedTokenRepository) (*TokenStore, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session: secret JWT vacío")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &TokenStore{cfg: cfg, revoked: revoked, now: time.Now}, nil
}

// Create emite un token para user.
func (s *TokenStore) Create(_ context.Context, user *entity.User) (*auth.Session, error) {
	now := s.now()
	tok, exp, err := pkgjwt.Generate(s.cfg.Secret, strconv.FormatInt(user.ID, 10), uuid.NewString(), s.cfg.Issuer, now, s.cfg.TTL)
	if err != nil {
		return nil, err
	}
	return &auth.Session{
		Token:     tok,
		Kind:      auth.SessionKindBearer,
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: exp,
	}, nil
}

// Lookup valida el token y consulta la lista de revocación.
func (s *TokenStore) Lookup(ctx context.Context, token string) (int64, error) {
	claims, userID, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}

// Revoke invalida el token hasta su expiración. Revocar dos veces no es error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	claims, userID, err := s.parse(token)
	if err != nil {
		return err
	}
	return s.revoked.Revoke(ctx, claims.ID, userID, claims.ExpiresAt.Time)
}

func (s *TokenStore) parse(token string) (*pkgjwt.Claims, int64, error) {
	claims, err := pkgjwt.Parse(s.cfg.Secret, s.cfg.Issuer, token)
	if err != nil {
		return nil, 0, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, 0, domain.ErrUnauthorized
	}
	return claims, userID, nil
}
