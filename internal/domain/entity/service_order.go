package entity

import "time"

// Estados de una orden de servicio. planned es el estado inicial;
// completed y cancelled son terminales para los tableros (filtro onlyActive).
const (
	OrderStatusPlanned    = "planned"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Prioridades válidas para una orden de servicio.
const (
	OrderPriorityLow    = "low"
	OrderPriorityNormal = "normal"
	OrderPriorityHigh   = "high"
	OrderPriorityUrgent = "urgent"
)

// KnownOrderStatus indica si s es uno de los cuatro estados conocidos.
func KnownOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlanned, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ServiceOrder es la raíz del agregado: una visita/trabajo de campo que posee
// asignaciones de cuadrilla, registros de tiempo, consumo de materiales, fotos
// y una firma del cliente. Se crea, hidrata y elimina como unidad consistente.
type ServiceOrder struct {
	ID          string
	Title       string
	Description string
	Notes       string

	AccountID        string  // obligatorio
	PropertyID       *string // predio donde se ejecuta (coordenadas para check-in)
	RecipientID      *string // contacto "receptor del servicio"
	InvoiceAccountID string  // por defecto = AccountID

	Status   string // planned, in_progress, completed, cancelled
	Priority string // low, normal, high, urgent

	PlannedDate  *time.Time // solo fecha (ventana planificada)
	PlannedStart *time.Time
	PlannedEnd   *time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time

	EstimatedMinutes *int // estimación de duración, informativa

	// Referencias libres a calendarios externos (Google/Outlook).
	CalendarEventID string
	CalendarRef     string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Campos de decoración (solo lectura, resueltos en la hidratación).
	AccountName        string
	InvoiceAccountName string
	PropertyName       string
	PropertyAddress    string
	PropertyLat        *float64
	PropertyLng        *float64
	RecipientName      string
}

// Aggregate es la orden hidratada con todas sus colecciones hijas.
type Aggregate struct {
	Order       ServiceOrder
	Assignments []Assignment
	TimeEntries []TimeEntry
	Materials   []MaterialUsage
	Photos      []Photo
	Signature   *Signature

	// TotalTrackedMinutes es la suma de las duraciones (guardadas o derivadas)
	// de todos los registros de tiempo. Derivado en la hidratación, no se persiste.
	TotalTrackedMinutes int
}
