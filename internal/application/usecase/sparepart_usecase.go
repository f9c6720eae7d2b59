package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/authz"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// SparePartUseCase registra y consulta el consumo de repuestos.
type SparePartUseCase struct {
	parts repository.SparePartRepository
	now   func() time.Time
}

// NewSparePartUseCase construye el caso de uso.
func NewSparePartUseCase(parts repository.SparePartRepository) *SparePartUseCase {
	return &SparePartUseCase{parts: parts, now: time.Now}
}

// List lista los registros de consumo, más recientes primero.
func (uc *SparePartUseCase) List(ctx context.Context, actor authz.Actor) ([]dto.SparePartResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbList, Resource: authz.ResourceSparePart}, nil); err != nil {
		return nil, err
	}
	list, err := uc.parts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SparePartResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toSparePartResponse(p))
	}
	return out, nil
}

// Get obtiene un registro de consumo.
func (uc *SparePartUseCase) Get(ctx context.Context, actor authz.Actor, id int64) (*dto.SparePartResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbView, Resource: authz.ResourceSparePart}, nil); err != nil {
		return nil, err
	}
	p, err := uc.parts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toSparePartResponse(p), nil
}

// Create registra consumo a nombre del actor. quantity_used por defecto 1.
func (uc *SparePartUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateSparePartRequest) (*dto.SparePartResponse, error) {
	d, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbCreate, Resource: authz.ResourceSparePart}, nil)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.PartName)
	if name == "" {
		return nil, fmt.Errorf("%w: part_name es requerido", domain.ErrInvalidInput)
	}
	qty := 1
	if in.QuantityUsed != nil {
		qty = *in.QuantityUsed
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity_used debe ser mayor que cero", domain.ErrInvalidInput)
	}
	p := &entity.SparePart{
		PartName:     name,
		QuantityUsed: qty,
		UsedDate:     uc.now(),
	}
	if d.ForceOwner {
		p.UsedBy = actor.ID
	}
	if err := uc.parts.Create(ctx, p); err != nil {
		return nil, err
	}
	created, err := uc.parts.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = p
	}
	return toSparePartResponse(created), nil
}

// Delete elimina un registro de consumo (solo manager).
func (uc *SparePartUseCase) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbDelete, Resource: authz.ResourceSparePart}, nil); err != nil {
		return err
	}
	return uc.parts.Delete(ctx, id)
}

// MonthlySummary total consumido por (mes, repuesto). Solo manager.
func (uc *SparePartUseCase) MonthlySummary(ctx context.Context, actor authz.Actor) ([]dto.MonthlySummaryResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbView, Resource: authz.ResourceUsageSummary}, nil); err != nil {
		return nil, err
	}
	rows, err := uc.parts.MonthlySummary(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MonthlySummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlySummaryResponse{Month: r.Month, PartName: r.PartName, TotalUsed: r.TotalUsed})
	}
	return out, nil
}
