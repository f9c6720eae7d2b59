package entity

import "time"

// Estados de un trabajo de mantenimiento.
const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in progress"
	JobStatusCompleted  = "completed"
)

// Job representa un trabajo de mantenimiento, opcionalmente asignado a un employee.
type Job struct {
	ID           int64
	JobTitle     string
	AssignedTo   *int64
	AssignedName *string // solo lectura, resuelto con JOIN a users
	Status       string
	Progress     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAssignedTo informa si el trabajo está asignado al usuario userID.
func (j *Job) IsAssignedTo(userID int64) bool {
	return j.AssignedTo != nil && *j.AssignedTo == userID
}

// ValidJobStatus informa si s es un estado conocido.
func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusCompleted:
		return true
	}
	return false
}

// JobPatch actualización parcial tipada. Un puntero nil significa "no tocar".
// AssignedToSet distingue "desasignar" (AssignedTo nil) de "no tocar".
type JobPatch struct {
	JobTitle      *string
	AssignedTo    *int64
	AssignedToSet bool
	Status        *string
	Progress      *int
}

// Apply aplica el patch sobre el trabajo y sella UpdatedAt.
func (p JobPatch) Apply(j *Job, now time.Time) {
	if p.JobTitle != nil {
		j.JobTitle = *p.JobTitle
	}
	if p.AssignedToSet {
		j.AssignedTo = p.AssignedTo
		j.AssignedName = nil
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Progress != nil {
		j.Progress = *p.Progress
	}
	j.UpdatedAt = now
}
