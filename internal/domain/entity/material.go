package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material es un artículo del maestro de materiales (solo lectura aquí).
// El stock se ajusta mediante una operación explícita fuera de este núcleo.
type Material struct {
	ID        string
	SKU       string
	Name      string
	Unit      string
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}
