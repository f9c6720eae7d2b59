// Package seed carga los datos de demostración del taller: usuarios por defecto, trabajos,
// materiales y consumos de ejemplo. Es idempotente: no duplica lo que ya existe.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

type defaultUser struct {
	email, password, name, role string
}

var defaultUsers = []defaultUser{
	{"manager@example.com", "manager123", "Manager User", entity.RoleManager},
	{"employee@example.com", "employee123", "Employee User", entity.RoleEmployee},
}

// Seeder carga datos por defecto en una sola transacción.
type Seeder struct {
	tx     repository.TxRunner
	hasher auth.PasswordHasher
	log    *logger.Logger
	now    func() time.Time
}

// NewSeeder construye el seeder.
func NewSeeder(tx repository.TxRunner, hasher auth.PasswordHasher, log *logger.Logger) *Seeder {
	return &Seeder{tx: tx, hasher: hasher, log: log, now: time.Now}
}

// Result cuántas filas creó cada paso.
type Result struct {
	Users, Jobs, Materials, SpareParts int
}

// Run crea los usuarios por defecto que falten y, si las tablas están vacías, los trabajos,
// materiales y consumos de ejemplo asignados al employee por defecto.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		var employee *entity.User
		for _, du := range defaultUsers {
			u, err := s.ensureUser(ctx, r.Users, du, &res)
			if err != nil {
				return err
			}
			if du.role == entity.RoleEmployee {
				employee = u
			}
		}
		if err := s.seedJobs(ctx, r.Jobs, employee, &res); err != nil {
			return err
		}
		if err := s.seedMaterials(ctx, r.Materials, &res); err != nil {
			return err
		}
		return s.seedSpareParts(ctx, r.SpareParts, employee, &res)
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed: %w", err)
	}
	s.log.Info().
		Int("users", res.Users).
		Int("jobs", res.Jobs).
		Int("materials", res.Materials).
		Int("spare_parts", res.SpareParts).
		Msg("datos por defecto cargados")
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, users repository.UserRepository, du defaultUser, res *Result) (*entity.User, error) {
	existing, err := users.GetByEmail(ctx, du.email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	hash, err := s.hasher.Hash(du.password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: du.email, Name: du.name, PasswordHash: hash, Role: du.role}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	res.Users++
	return u, nil
}

func (s *Seeder) seedJobs(ctx context.Context, jobs repository.JobRepository, employee *entity.User, res *Result) error {
	n, err := jobs.Count(ctx)
	if err != nil || n > 0 || employee == nil {
		return err
	}
	id := employee.ID
	sample := []entity.Job{
		{JobTitle: "Engine Overhaul", AssignedTo: &id, Status: entity.JobStatusInProgress, Progress: 45},
		{JobTitle: "Oil Change", AssignedTo: &id, Status: entity.JobStatusPending},
		{JobTitle: "Brake System Inspection", Status: entity.JobStatusPending},
		{JobTitle: "Hydraulic Repair", AssignedTo: &id, Status: entity.JobStatusCompleted, Progress: 100},
	}
	for i := range sample {
		if err := jobs.Create(ctx, &sample[i]); err != nil {
			return err
		}
		res.Jobs++
	}
	return nil
}

func (s *Seeder) seedMaterials(ctx context.Context, materials repository.MaterialRepository, res *Result) error {
	n, err := materials.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	sample := []entity.Material{
		{MaterialName: "Steel Bolts M12", Quantity: 150, MinimumLevel: 50, Unit: "pcs"},
		{MaterialName: "Steel Bolts M16", Quantity: 30, MinimumLevel: 40, Unit: "pcs"},
		{MaterialName: "Nylon Washers", Quantity: 200, MinimumLevel: 100, Unit: "pcs"},
		{MaterialName: "Hydraulic Oil", Quantity: 80, MinimumLevel: 100, Unit: "liters"},
		{MaterialName: "Welding Rods", Quantity: 25, MinimumLevel: 50, Unit: "pcs"},
		{MaterialName: "Sandpaper Pack", Quantity: 45, MinimumLevel: 30, Unit: "packs"},
	}
	for i := range sample {
		if err := materials.Create(ctx, &sample[i]); err != nil {
			return err
		}
		res.Materials++
	}
	return nil
}

func (s *Seeder) seedSpareParts(ctx context.Context, parts repository.SparePartRepository, employee *entity.User, res *Result) error {
	n, err := parts.Count(ctx)
	if err != nil || n > 0 || employee == nil {
		return err
	}
	now := s.now()
	sample := []entity.SparePart{
		{PartName: "Fuel Injector", QuantityUsed: 2},
		{PartName: "Oil Filter", QuantityUsed: 5},
		{PartName: "Drive Belt", QuantityUsed: 1},
		{PartName: "Hydraulic Seal", QuantityUsed: 4},
	}
	for i := range sample {
		sample[i].UsedBy = employee.ID
		sample[i].UsedDate = now
		if err := parts.Create(ctx, &sample[i]); err != nil {
			return err
		}
		res.SpareParts++
	}
	return nil
}
