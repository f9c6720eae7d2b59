package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// MaterialFilter LowStockOnly limita a materiales con quantity <= minimum_level.
type MaterialFilter struct {
	LowStockOnly bool
}

// MaterialRepository define el puerto de persistencia para Material.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Material, error)
	List(ctx context.Context, filter MaterialFilter) ([]*entity.Material, error)
	Update(ctx context.Context, m *entity.Material) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
