package entity

import "time"

// Roles válidos para User. El rol no cambia después de la creación.
const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User representa un usuario del taller.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string // bcrypt, nunca texto plano
	Role         string
	CreatedAt    time.Time
}

// IsManager informa si el usuario tiene rol manager.
func (u *User) IsManager() bool { return u != nil && u.Role == RoleManager }

// ValidRole informa si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleEmployee
}
