package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsage es una línea desnormalizada de consumo de material en una orden.
// La cantidad NO se descuenta del stock automáticamente: el ajuste de inventario
// es una operación explícita fuera de este subsistema.
type MaterialUsage struct {
	ID             string
	ServiceOrderID string
	MaterialID     *string // referencia opcional al maestro de materiales
	EmployeeID     *string
	Name           string
	Quantity       decimal.Decimal
	Unit           string
	UnitPrice      *decimal.Decimal
	Notes          string
	CreatedAt      time.Time

	EmployeeName string // decoración
}
