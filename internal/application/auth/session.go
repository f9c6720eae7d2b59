package auth

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// Tipos de sesión devueltos al cliente.
const (
	SessionKindBearer = "bearer"
	SessionKindCookie = "cookie"
)

// Session sesión autenticada efímera. Nunca se guarda en las tablas de dominio.
type Session struct {
	Token     string
	Kind      string
	UserID    int64
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore backend del resolvedor de sesiones (token firmado o cookie con estado en servidor).
// Lookup y Revoke devuelven domain.ErrUnauthorized si el token no es válido.
type SessionStore interface {
	Create(ctx context.Context, user *entity.User) (*Session, error)
	Lookup(ctx context.Context, token string) (userID int64, err error)
	Revoke(ctx context.Context, token string) error
}

// PasswordHasher capacidad hash/verify de contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}
