package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo que necesitan los repositorios: lo cumplen *pgxpool.Pool y pgx.Tx, así el
// mismo repositorio sirve dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos construye todos los repositorios sobre q.
func NewRepos(q Querier) Repos {
	return Repos{
		Users:      NewUserRepository(q),
		Jobs:       NewJobRepository(q),
		Materials:  NewMaterialRepository(q),
		SpareParts: NewSparePartRepository(q),
	}
}
