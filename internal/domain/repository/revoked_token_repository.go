package repository

import (
	"context"
	"time"
)

// RevokedTokenRepository lista de revocación de tokens firmados (por jti).
type RevokedTokenRepository interface {
	// Revoke es idempotente: revocar dos veces el mismo jti no es error.
	Revoke(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// DeleteExpired borra entradas cuyo token ya expiró antes de before.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
