package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleOficina = "oficina"
	RoleTecnico = "tecnico"
)

// User representa un usuario del sistema (cuenta de acceso; un técnico
// de campo referencia además su Employee).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string  // admin, oficina, tecnico
	EmployeeID   *string // empleado asociado, si el usuario es de campo
	Status       string  // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
