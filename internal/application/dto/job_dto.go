package dto

import "time"

// CreateJobRequest entrada para crear un trabajo. Status y Progress son opcionales (pending / 0).
type CreateJobRequest struct {
	JobTitle   string `json:"job_title" validate:"required"`
	AssignedTo *int64 `json:"assigned_to"`
	Status     string `json:"status" validate:"omitempty,oneof=pending 'in progress' completed"`
	Progress   *int   `json:"progress" validate:"omitempty,min=0,max=100"`
}

// JobResponse salida de un trabajo con el nombre del asignado.
type JobResponse struct {
	ID           int64     `json:"id"`
	JobTitle     string    `json:"job_title"`
	AssignedTo   *int64    `json:"assigned_to"`
	AssignedName *string   `json:"assigned_name"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
