package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/authz"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// JobUseCase aplica reglas de negocio y de autorización para trabajos.
type JobUseCase struct {
	jobs  repository.JobRepository
	users repository.UserRepository
	tx    repository.TxRunner
	opts  UpdateOptions
	now   func() time.Time
}

// NewJobUseCase construye el caso de uso con los puertos de persistencia.
func NewJobUseCase(jobs repository.JobRepository, users repository.UserRepository, tx repository.TxRunner, opts UpdateOptions) *JobUseCase {
	return &JobUseCase{jobs: jobs, users: users, tx: tx, opts: opts, now: time.Now}
}

// List devuelve todos los trabajos a un manager y solo los asignados a un employee.
func (uc *JobUseCase) List(ctx context.Context, actor authz.Actor) ([]dto.JobResponse, error) {
	d, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbList, Resource: authz.ResourceJob}, nil)
	if err != nil {
		return nil, err
	}
	var filter repository.JobFilter
	if d.Scope == authz.ScopeOwn {
		id := actor.ID
		filter.AssignedTo = &id
	}
	list, err := uc.jobs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JobResponse, 0, len(list))
	for _, j := range list {
		out = append(out, *toJobResponse(j))
	}
	return out, nil
}

// Get obtiene un trabajo. Un employee solo puede ver los suyos.
func (uc *JobUseCase) Get(ctx context.Context, actor authz.Actor, id int64) (*dto.JobResponse, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbView, Resource: authz.ResourceJob, OwnerID: job.AssignedTo}, nil); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// Create crea un trabajo (solo manager). Status por defecto pending y progress 0.
func (uc *JobUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateJobRequest) (*dto.JobResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbCreate, Resource: authz.ResourceJob}, nil); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.JobTitle)
	if title == "" {
		return nil, fmt.Errorf("%w: job_title es requerido", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.JobStatusPending
	}
	progress := 0
	if in.Progress != nil {
		progress = *in.Progress
	}
	job := &entity.Job{
		JobTitle:   title,
		AssignedTo: in.AssignedTo,
		Status:     status,
		Progress:   progress,
	}
	if err := validateJob(job); err != nil {
		return nil, err
	}
	if err := ensureEmployee(ctx, uc.users, job.AssignedTo); err != nil {
		return nil, err
	}
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	created, err := uc.jobs.GetByID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = job
	}
	return toJobResponse(created), nil
}

// Update aplica una actualización parcial. Lectura, autorización, proyección y escritura
// ocurren en una sola transacción con la fila bloqueada.
func (uc *JobUseCase) Update(ctx context.Context, actor authz.Actor, id int64, payload map[string]json.RawMessage) (*dto.JobResponse, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	var updated *entity.Job
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		job, err := r.Jobs.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if job == nil {
			return domain.ErrNotFound
		}
		action := authz.Action{Verb: authz.VerbUpdate, Resource: authz.ResourceJob, OwnerID: job.AssignedTo}
		d, err := authz.Authorize(actor, action, authz.RequestedFields(payload))
		if err != nil {
			return err
		}
		kept, dropped := authz.Project(payload, d.AllowedFields)
		if err := rejectDropped(uc.opts, dropped); err != nil {
			return err
		}
		patch, err := decodeJobPatch(kept)
		if err != nil {
			return err
		}
		patch.Apply(job, uc.now())
		if err := validateJob(job); err != nil {
			return err
		}
		if patch.AssignedToSet {
			if err := ensureEmployee(ctx, r.Users, job.AssignedTo); err != nil {
				return err
			}
		}
		if err := r.Jobs.Update(ctx, job); err != nil {
			return err
		}
		updated, err = r.Jobs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if updated == nil {
			updated = job
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(updated), nil
}

// Delete elimina un trabajo (solo manager). Un id inexistente devuelve ErrNotFound.
func (uc *JobUseCase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbDelete, Resource: authz.ResourceJob}, nil); err != nil {
		return err
	}
	return uc.jobs.Delete(ctx, id)
}

func decodeJobPatch(kept map[string]json.RawMessage) (entity.JobPatch, error) {
	var p entity.JobPatch
	var err error
	for field, raw := range kept {
		switch field {
		case "job_title":
			if p.JobTitle, err = decodeString(raw, field); err != nil {
				return p, err
			}
			t := strings.TrimSpace(*p.JobTitle)
			p.JobTitle = &t
		case "assigned_to":
			if p.AssignedTo, err = decodeNullableID(raw, field); err != nil {
				return p, err
			}
			p.AssignedToSet = true
		case "status":
			if p.Status, err = decodeString(raw, field); err != nil {
				return p, err
			}
		case "progress":
			if p.Progress, err = decodeInt(raw, field); err != nil {
				return p, err
			}
		}
	}
	return p, nil
}

func validateJob(j *entity.Job) error {
	if j.JobTitle == "" {
		return fmt.Errorf("%w: job_title no puede estar vacío", domain.ErrInvalidInput)
	}
	if !entity.ValidJobStatus(j.Status) {
		return fmt.Errorf("%w: status debe ser pending, in progress o completed", domain.ErrInvalidInput)
	}
	if j.Progress < 0 || j.Progress > 100 {
		return fmt.Errorf("%w: progress debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

// ensureEmployee exige que assigned_to, si viene, sea un employee existente.
func ensureEmployee(ctx context.Context, users repository.UserRepository, id *int64) error {
	if id == nil {
		return nil
	}
	u, err := users.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if u == nil || u.Role != entity.RoleEmployee {
		return fmt.Errorf("%w: assigned_to debe ser un employee existente", domain.ErrInvalidInput)
	}
	return nil
}
