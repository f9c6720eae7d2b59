package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.SparePartRepository = (*SparePartRepo)(nil)

const sparePartSelect = `
	SELECT p.id, p.part_name, p.quantity_used, p.used_by, u.name, p.used_date
	FROM spare_parts p
	LEFT JOIN users u ON u.id = p.used_by`

// SparePartRepo implementación del puerto SparePartRepository sobre PostgreSQL.
type SparePartRepo struct {
	q Querier
}

// NewSparePartRepository construye el adaptador del libro de consumo.
func NewSparePartRepository(q Querier) *SparePartRepo {
	return &SparePartRepo{q: q}
}

// Create registra un consumo. UsedDate cero usa now() de la base.
func (r *SparePartRepo) Create(ctx context.Context, p *entity.SparePart) error {
	query := `
		INSERT INTO spare_parts (part_name, quantity_used, used_by, used_date)
		VALUES ($1, $2, $3, COALESCE($4, now()))
		RETURNING id, used_date`
	var usedDate any
	if !p.UsedDate.IsZero() {
		usedDate = p.UsedDate
	}
	if err := r.q.QueryRow(ctx, query, p.PartName, p.QuantityUsed, p.UsedBy, usedDate).Scan(&p.ID, &p.UsedDate); err != nil {
		return fmt.Errorf("insert spare part: %w", err)
	}
	return nil
}

// GetByID obtiene un registro con el nombre de quien lo usó.
func (r *SparePartRepo) GetByID(ctx context.Context, id int64) (*entity.SparePart, error) {
	p, err := scanSparePart(r.q.QueryRow(ctx, sparePartSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get spare part: %w", err)
	}
	return p, nil
}

// List lista registros del más reciente al más antiguo.
func (r *SparePartRepo) List(ctx context.Context) ([]*entity.SparePart, error) {
	rows, err := r.q.Query(ctx, sparePartSelect+` ORDER BY p.used_date DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list spare parts: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.SparePart, 0)
	for rows.Next() {
		p, err := scanSparePart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spare part: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete elimina un registro.
func (r *SparePartRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM spare_parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete spare part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count total de registros.
func (r *SparePartRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM spare_parts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count spare parts: %w", err)
	}
	return n, nil
}

// MonthlySummary total consumido por (mes, repuesto).
func (r *SparePartRepo) MonthlySummary(ctx context.Context) ([]entity.MonthlyUsage, error) {
	query := `
		SELECT to_char(used_date AT TIME ZONE 'UTC', 'YYYY-MM') AS month, part_name, SUM(quantity_used)::bigint
		FROM spare_parts
		GROUP BY month, part_name
		ORDER BY month DESC, part_name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	out := make([]entity.MonthlyUsage, 0)
	for rows.Next() {
		var u entity.MonthlyUsage
		if err := rows.Scan(&u.Month, &u.PartName, &u.TotalUsed); err != nil {
			return nil, fmt.Errorf("scan monthly summary: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanSparePart(row pgx.Row) (*entity.SparePart, error) {
	var p entity.SparePart
	err := row.Scan(&p.ID, &p.PartName, &p.QuantityUsed, &p.UsedBy, &p.UsedByName, &p.UsedDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
