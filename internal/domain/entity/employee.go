package entity

import "time"

// Employee es un técnico/miembro de cuadrilla (maestro, solo lectura aquí).
type Employee struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
}
