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

var _ repository.JobRepository = (*JobRepo)(nil)

const jobSelect = `
	SELECT j.id, j.job_title, j.assigned_to, u.name, j.status, j.progress, j.created_at, j.updated_at
	FROM jobs j
	LEFT JOIN users u ON u.id = j.assigned_to`

// JobRepo implementación del puerto JobRepository sobre PostgreSQL.
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador de persistencia para trabajos.
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

// Create persiste un trabajo y completa ID y marcas de tiempo.
func (r *JobRepo) Create(ctx context.Context, j *entity.Job) error {
	query := `
		INSERT INTO jobs (job_title, assigned_to, status, progress)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, j.JobTitle, j.AssignedTo, j.Status, j.Progress).
		Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID obtiene un trabajo con el nombre del asignado.
func (r *JobRepo) GetByID(ctx context.Context, id int64) (*entity.Job, error) {
	j, err := scanJob(r.q.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// GetForUpdate obtiene el trabajo bloqueando su fila; solo tiene efecto dentro de una tx.
func (r *JobRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Job, error) {
	j, err := scanJob(r.q.QueryRow(ctx, jobSelect+` WHERE j.id = $1 FOR UPDATE OF j`, id))
	if err != nil {
		return nil, fmt.Errorf("get job for update: %w", err)
	}
	return j, nil
}

// List lista trabajos del más reciente al más antiguo.
func (r *JobRepo) List(ctx context.Context, filter repository.JobFilter) ([]*entity.Job, error) {
	query := jobSelect
	var args []any
	if filter.AssignedTo != nil {
		query += ` WHERE j.assigned_to = $1`
		args = append(args, *filter.AssignedTo)
	}
	query += ` ORDER BY j.created_at DESC, j.id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// Update guarda los campos escribibles del trabajo.
func (r *JobRepo) Update(ctx context.Context, j *entity.Job) error {
	query := `
		UPDATE jobs
		SET job_title = $2, assigned_to = $3, status = $4, progress = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, j.ID, j.JobTitle, j.AssignedTo, j.Status, j.Progress, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el trabajo.
func (r *JobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count total de trabajos.
func (r *JobRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	var j entity.Job
	err := row.Scan(&j.ID, &j.JobTitle, &j.AssignedTo, &j.AssignedName, &j.Status, &j.Progress, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}
