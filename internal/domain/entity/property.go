package entity

import "time"

// Property es un predio/dirección de servicio de una cuenta (maestro, solo
// lectura aquí). Las coordenadas alimentan el check-in geocercado.
type Property struct {
	ID        string
	AccountID string
	Name      string
	Address   string
	Lat       *float64
	Lng       *float64
	CreatedAt time.Time
}

// Geolocated indica si el predio tiene coordenadas para el check-in.
func (p *Property) Geolocated() bool { return p.Lat != nil && p.Lng != nil }
