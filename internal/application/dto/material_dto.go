package dto

import "time"

// CreateMaterialRequest entrada para crear un material. Quantity es obligatorio.
type CreateMaterialRequest struct {
	MaterialName string `json:"material_name" validate:"required"`
	Quantity     *int   `json:"quantity" validate:"required"`
	MinimumLevel *int   `json:"minimum_level" validate:"omitempty,min=0"`
	Unit         string `json:"unit"`
}

// MaterialResponse salida de un material con la marca de stock bajo.
type MaterialResponse struct {
	ID           int64     `json:"id"`
	MaterialName string    `json:"material_name"`
	Quantity     int       `json:"quantity"`
	MinimumLevel int       `json:"minimum_level"`
	Unit         string    `json:"unit"`
	LowStock     bool      `json:"low_stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}
