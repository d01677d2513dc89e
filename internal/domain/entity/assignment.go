package entity

import "time"

// Assignment es la participación programada de un empleado en una orden.
// La ventana (fecha/inicio/fin) puede diferir de la planificada en la orden;
// cuando no se indica, hereda la de la orden al momento de crearla.
type Assignment struct {
	ID             string
	ServiceOrderID string
	EmployeeID     string
	ScheduledDate  *time.Time
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	IsPrimary      bool // exactamente una asignación primaria por lista suministrada
	CreatedAt      time.Time

	EmployeeName string // decoración
}
