package entity

import "time"

// Account representa una cuenta de cliente (maestro, solo lectura aquí).
// El CRUD completo de cuentas vive fuera de este núcleo.
type Account struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
