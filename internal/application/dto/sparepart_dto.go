package dto

import "time"

// CreateSparePartRequest entrada para registrar consumo. No existe used_by: siempre es el actor.
type CreateSparePartRequest struct {
	PartName     string `json:"part_name" validate:"required"`
	QuantityUsed *int   `json:"quantity_used" validate:"omitempty,min=1"`
}

// SparePartResponse salida de un registro de consumo.
type SparePartResponse struct {
	ID           int64     `json:"id"`
	PartName     string    `json:"part_name"`
	QuantityUsed int       `json:"quantity_used"`
	UsedBy       int64     `json:"used_by"`
	UsedByName   *string   `json:"used_by_name"`
	UsedDate     time.Time `json:"used_date"`
}

// MonthlySummaryResponse total consumido por repuesto y mes.
type MonthlySummaryResponse struct {
	Month     string `json:"month"`
	PartName  string `json:"part_name"`
	TotalUsed int64  `json:"total_used"`
}
