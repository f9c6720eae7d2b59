package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// SparePartRepository define el puerto de persistencia del libro de consumo de repuestos.
type SparePartRepository interface {
	Create(ctx context.Context, p *entity.SparePart) error
	GetByID(ctx context.Context, id int64) (*entity.SparePart, error)
	List(ctx context.Context) ([]*entity.SparePart, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	// MonthlySummary agrupa por (mes YYYY-MM, part_name), mes descendente y part_name ascendente.
	MonthlySummary(ctx context.Context) ([]entity.MonthlyUsage, error)
}
