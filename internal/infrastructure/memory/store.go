// Package memory implementa los puertos de persistencia en memoria. Lo usan las pruebas
// de casos de uso y de HTTP en lugar de PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.JobRepository          = (*JobRepo)(nil)
	_ repository.MaterialRepository     = (*MaterialRepo)(nil)
	_ repository.SparePartRepository    = (*SparePartRepo)(nil)
	_ repository.RevokedTokenRepository = (*RevokedTokenRepo)(nil)
	_ repository.TxRunner               = (*TxRunner)(nil)
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	now    func() time.Time
	nextID int64

	users     map[int64]entity.User
	jobs      map[int64]entity.Job
	materials map[int64]entity.Material
	parts     map[int64]entity.SparePart
	revoked   map[string]time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		now:       time.Now,
		users:     make(map[int64]entity.User),
		jobs:      make(map[int64]entity.Job),
		materials: make(map[int64]entity.Material),
		parts:     make(map[int64]entity.SparePart),
		revoked:   make(map[string]time.Time),
	}
}

// Repos devuelve los repositorios respaldados por este almacén.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:      &UserRepo{s: s},
		Jobs:       &JobRepo{s: s},
		Materials:  &MaterialRepo{s: s},
		SpareParts: &SparePartRepo{s: s},
	}
}

// RevokedTokens devuelve la lista de revocación en memoria.
func (s *Store) RevokedTokens() *RevokedTokenRepo { return &RevokedTokenRepo{s: s} }

// SetRole cambia el rol de un usuario. Solo existe para simular cambios de rol en pruebas.
func (s *Store) SetRole(userID int64, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Role = role
		s.users[userID] = u
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) userName(id int64) *string {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	name := u.Name
	return &name
}

// TxRunner serializa las transacciones. No hay rollback: las pruebas que lo necesitan
// usan el TxRunner de postgres.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run ejecuta fn con los repositorios del almacén.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	return fn(r.s.Repos())
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// JobRepo trabajos en memoria.
type JobRepo struct{ s *Store }

func (r *JobRepo) Create(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j.ID = r.s.id()
	j.CreatedAt = r.s.now()
	j.UpdatedAt = j.CreatedAt
	r.s.jobs[j.ID] = *j
	return nil
}

func (r *JobRepo) GetByID(_ context.Context, id int64) (*entity.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	return r.withName(j), nil
}

func (r *JobRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Job, error) {
	return r.GetByID(ctx, id)
}

func (r *JobRepo) List(_ context.Context, f repository.JobFilter) ([]*entity.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Job, 0, len(r.s.jobs))
	for _, j := range r.s.jobs {
		if f.AssignedTo != nil && !j.IsAssignedTo(*f.AssignedTo) {
			continue
		}
		out = append(out, r.withName(j))
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID > out[k].ID
		}
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out, nil
}

func (r *JobRepo) Update(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[j.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *j
	stored.AssignedName = nil
	r.s.jobs[j.ID] = stored
	return nil
}

func (r *JobRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

func (r *JobRepo) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.jobs), nil
}

func (r *JobRepo) withName(j entity.Job) *entity.Job {
	j.AssignedName = nil
	if j.AssignedTo != nil {
		j.AssignedName = r.s.userName(*j.AssignedTo)
	}
	return &j
}

// MaterialRepo materiales en memoria.
type MaterialRepo struct{ s *Store }

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.id()
	m.UpdatedAt = r.s.now()
	r.s.materials[m.ID] = *m
	return nil
}

func (r *MaterialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MaterialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRepo) List(_ context.Context, f repository.MaterialFilter) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Material, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		if f.LowStockOnly && !m.LowStock() {
			continue
		}
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialName < out[j].MaterialName })
	return out, nil
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.materials[m.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.materials[m.ID] = *m
	return nil
}

func (r *MaterialRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.materials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.materials, id)
	return nil
}

func (r *MaterialRepo) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.materials), nil
}

// SparePartRepo libro de consumo en memoria.
type SparePartRepo struct{ s *Store }

func (r *SparePartRepo) Create(_ context.Context, p *entity.SparePart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	if p.UsedDate.IsZero() {
		p.UsedDate = r.s.now()
	}
	stored := *p
	stored.UsedByName = nil
	r.s.parts[p.ID] = stored
	return nil
}

func (r *SparePartRepo) GetByID(_ context.Context, id int64) (*entity.SparePart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.parts[id]
	if !ok {
		return nil, nil
	}
	p.UsedByName = r.s.userName(p.UsedBy)
	return &p, nil
}

func (r *SparePartRepo) List(context.Context) ([]*entity.SparePart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.SparePart, 0, len(r.s.parts))
	for _, p := range r.s.parts {
		p.UsedByName = r.s.userName(p.UsedBy)
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsedDate.Equal(out[j].UsedDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].UsedDate.After(out[j].UsedDate)
	})
	return out, nil
}

func (r *SparePartRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.parts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.parts, id)
	return nil
}

func (r *SparePartRepo) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.parts), nil
}

func (r *SparePartRepo) MonthlySummary(context.Context) ([]entity.MonthlyUsage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type key struct{ month, part string }
	totals := make(map[key]int64)
	for _, p := range r.s.parts {
		totals[key{p.UsedDate.UTC().Format("2006-01"), p.PartName}] += int64(p.QuantityUsed)
	}
	out := make([]entity.MonthlyUsage, 0, len(totals))
	for k, total := range totals {
		out = append(out, entity.MonthlyUsage{Month: k.month, PartName: k.part, TotalUsed: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].PartName < out[j].PartName
	})
	return out, nil
}

// RevokedTokenRepo lista de revocación en memoria.
type RevokedTokenRepo struct{ s *Store }

func (r *RevokedTokenRepo) Revoke(_ context.Context, tokenID string, _ int64, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[tokenID] = expiresAt
	return nil
}

func (r *RevokedTokenRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.revoked[tokenID]
	return ok, nil
}

func (r *RevokedTokenRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, exp := range r.s.revoked {
		if exp.Before(before) {
			delete(r.s.revoked, id)
			n++
		}
	}
	return n, nil
}
