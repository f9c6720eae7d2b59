package usecase

import (
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

func toJobResponse(j *entity.Job) *dto.JobResponse {
	if j == nil {
		return nil
	}
	return &dto.JobResponse{
		ID:           j.ID,
		JobTitle:     j.JobTitle,
		AssignedTo:   j.AssignedTo,
		AssignedName: j.AssignedName,
		Status:       j.Status,
		Progress:     j.Progress,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:           m.ID,
		MaterialName: m.MaterialName,
		Quantity:     m.Quantity,
		MinimumLevel: m.MinimumLevel,
		Unit:         m.Unit,
		LowStock:     m.LowStock(),
		UpdatedAt:    m.UpdatedAt,
	}
}

func toSparePartResponse(p *entity.SparePart) *dto.SparePartResponse {
	if p == nil {
		return nil
	}
	return &dto.SparePartResponse{
		ID:           p.ID,
		PartName:     p.PartName,
		QuantityUsed: p.QuantityUsed,
		UsedBy:       p.UsedBy,
		UsedByName:   p.UsedByName,
		UsedDate:     p.UsedDate,
	}
}
