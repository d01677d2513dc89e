package entity

import "time"

// Contact es una persona de contacto de una cuenta (maestro, solo lectura aquí).
type Contact struct {
	ID        string
	AccountID string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
