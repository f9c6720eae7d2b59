package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// JobFilter restringe el listado de trabajos. AssignedTo nil lista todos.
type JobFilter struct {
	AssignedTo *int64
}

// JobRepository define el puerto de persistencia para Job.
type JobRepository interface {
	// Create persiste el trabajo y completa ID, CreatedAt y UpdatedAt.
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id int64) (*entity.Job, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Job, error)
	List(ctx context.Context, filter JobFilter) ([]*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	// Delete devuelve domain.ErrNotFound si no había fila.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
