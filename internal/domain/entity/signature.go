package entity

import "time"

// Signature es la firma del cliente sobre una orden (relación 0..1).
// Fijarla es un upsert por orden: nunca hay más de una fila.
type Signature struct {
	ID             string
	ServiceOrderID string
	SignerName     string
	SignedAt       time.Time
	Data           string // imagen o texto de la firma, embebido
	CreatedAt      time.Time
}
