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

// MaterialOptions opciones de inventario además del filtrado de campos.
type MaterialOptions struct {
	UpdateOptions
	AllowNegative bool // permite quantity < 0
}

// MaterialUseCase aplica reglas de negocio para el inventario de materiales.
type MaterialUseCase struct {
	materials repository.MaterialRepository
	tx        repository.TxRunner
	opts      MaterialOptions
	now       func() time.Time
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(materials repository.MaterialRepository, tx repository.TxRunner, opts MaterialOptions) *MaterialUseCase {
	return &MaterialUseCase{materials: materials, tx: tx, opts: opts, now: time.Now}
}

// List lista materiales ordenados por nombre; lowStockOnly deja solo los de stock bajo.
func (uc *MaterialUseCase) List(ctx context.Context, actor authz.Actor, lowStockOnly bool) ([]dto.MaterialResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbList, Resource: authz.ResourceMaterial}, nil); err != nil {
		return nil, err
	}
	list, err := uc.materials.List(ctx, repository.MaterialFilter{LowStockOnly: lowStockOnly})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMaterialResponse(m))
	}
	return out, nil
}

// Get obtiene un material por ID.
func (uc *MaterialUseCase) Get(ctx context.Context, actor authz.Actor, id int64) (*dto.MaterialResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbView, Resource: authz.ResourceMaterial}, nil); err != nil {
		return nil, err
	}
	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMaterialResponse(m), nil
}

// Create crea un material (solo manager).
func (uc *MaterialUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbCreate, Resource: authz.ResourceMaterial}, nil); err != nil {
		return nil, err
	}
	if in.Quantity == nil {
		return nil, fmt.Errorf("%w: quantity es requerido", domain.ErrInvalidInput)
	}
	m := &entity.Material{
		MaterialName: strings.TrimSpace(in.MaterialName),
		Quantity:     *in.Quantity,
		MinimumLevel: entity.DefaultMinimumLevel,
		Unit:         strings.TrimSpace(in.Unit),
	}
	if in.MinimumLevel != nil {
		m.MinimumLevel = *in.MinimumLevel
	}
	if m.Unit == "" {
		m.Unit = entity.DefaultUnit
	}
	if err := uc.validate(m); err != nil {
		return nil, err
	}
	if err := uc.materials.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Update aplica una actualización parcial filtrada (solo manager).
func (uc *MaterialUseCase) Update(ctx context.Context, actor authz.Actor, id int64, payload map[string]json.RawMessage) (*dto.MaterialResponse, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	var updated *entity.Material
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbUpdate, Resource: authz.ResourceMaterial}, authz.RequestedFields(payload))
		if err != nil {
			return err
		}
		m, err := r.Materials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		kept, dropped := authz.Project(payload, d.AllowedFields)
		if err := rejectDropped(uc.opts.UpdateOptions, dropped); err != nil {
			return err
		}
		patch, err := decodeMaterialPatch(kept)
		if err != nil {
			return err
		}
		patch.Apply(m, uc.now())
		if err := uc.validate(m); err != nil {
			return err
		}
		if err := r.Materials.Update(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(updated), nil
}

// Delete elimina un material (solo manager).
func (uc *MaterialUseCase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbDelete, Resource: authz.ResourceMaterial}, nil); err != nil {
		return err
	}
	return uc.materials.Delete(ctx, id)
}

func (uc *MaterialUseCase) validate(m *entity.Material) error {
	if m.MaterialName == "" {
		return fmt.Errorf("%w: material_name es requerido", domain.ErrInvalidInput)
	}
	if m.Quantity < 0 && !uc.opts.AllowNegative {
		return fmt.Errorf("%w: quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if m.MinimumLevel < 0 {
		return fmt.Errorf("%w: minimum_level no puede ser negativo", domain.ErrInvalidInput)
	}
	if m.Unit == "" {
		return fmt.Errorf("%w: unit no puede estar vacío", domain.ErrInvalidInput)
	}
	return nil
}

func decodeMaterialPatch(kept map[string]json.RawMessage) (entity.MaterialPatch, error) {
	var p entity.MaterialPatch
	var err error
	for field, raw := range kept {
		switch field {
		case "material_name":
			if p.MaterialName, err = decodeString(raw, field); err != nil {
				return p, err
			}
			n := strings.TrimSpace(*p.MaterialName)
			p.MaterialName = &n
		case "quantity":
			if p.Quantity, err = decodeInt(raw, field); err != nil {
				return p, err
			}
		case "minimum_level":
			if p.MinimumLevel, err = decodeInt(raw, field); err != nil {
				return p, err
			}
		case "unit":
			if p.Unit, err = decodeString(raw, field); err != nil {
				return p, err
			}
			u := strings.TrimSpace(*p.Unit)
			p.Unit = &u
		}
	}
	return p, nil
}
