package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ── Payloads anidados ─────────────────────────────────────────────────────────

// AssignmentPayload asignación anidada en create/update.
// IsPrimary es puntero para distinguir "no marcado" de "marcado en false":
// si ninguna asignación de la lista viene marcada, la primera se fuerza primaria.
type AssignmentPayload struct {
	EmployeeID     string     `json:"employee_id"`
	ScheduledDate  *string    `json:"scheduled_date"` // YYYY-MM-DD; hereda planned_date si falta
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	IsPrimary      *bool      `json:"is_primary"`
}

// TimeEntryPayload registro de tiempo anidado o agregado individualmente.
type TimeEntryPayload struct {
	EmployeeID      string     `json:"employee_id"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes *int       `json:"duration_minutes"` // si falta, se deriva de start/end
	Source          string     `json:"source"`           // manual | gps | mobile
	StartLat        *float64   `json:"start_lat"`
	StartLng        *float64   `json:"start_lng"`
	EndLat          *float64   `json:"end_lat"`
	EndLng          *float64   `json:"end_lng"`
	DistanceKM      *float64   `json:"distance_km"`
	Notes           string     `json:"notes"`
}

// UpdateTimeEntryRequest actualización parcial de un registro de tiempo.
// La duración se recalcula cuando cambian start/end y no viene explícita.
type UpdateTimeEntryRequest struct {
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Source          *string    `json:"source"`
	EndLat          *float64   `json:"end_lat"`
	EndLng          *float64   `json:"end_lng"`
	DistanceKM      *float64   `json:"distance_km"`
	Notes           *string    `json:"notes"`
}

// MaterialUsagePayload línea de consumo de material.
type MaterialUsagePayload struct {
	MaterialID *string          `json:"material_id"`
	EmployeeID *string          `json:"employee_id"`
	Name       string           `json:"name"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Unit       string           `json:"unit"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Notes      string           `json:"notes"`
}

// UpdateMaterialUsageRequest actualización parcial de una línea de material.
type UpdateMaterialUsageRequest struct {
	Name      *string          `json:"name"`
	Quantity  *decimal.Decimal `json:"quantity"`
	Unit      *string          `json:"unit"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     *string          `json:"notes"`
}

// PhotoPayload foto adjunta a la orden.
type PhotoPayload struct {
	EmployeeID *string `json:"employee_id"`
	Data       string  `json:"data"`
	Caption    string  `json:"caption"`
}

// SignaturePayload firma del cliente.
type SignaturePayload struct {
	SignerName string     `json:"signer_name"`
	SignedAt   *time.Time `json:"signed_at"` // por defecto, ahora
	Data       string     `json:"data"`
}

// OptionalSignature distingue los tres estados de la clave "signature" en el
// update: ausente (conservar), null (borrar) y objeto (upsert). El unmarshaller
// solo corre si la clave está presente, así que Present queda en false cuando falta.
type OptionalSignature struct {
	Present bool
	Value   *SignaturePayload
}

func (o *OptionalSignature) UnmarshalJSON(b []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v SignaturePayload
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateOrderRequest creación del agregado con hijas anidadas en una llamada.
type CreateOrderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Notes       string `json:"notes"`

	AccountID        string  `json:"account_id"`
	PropertyID       *string `json:"property_id"`
	RecipientID      *string `json:"recipient_id"`
	InvoiceAccountID *string `json:"invoice_account_id"` // por defecto, account_id

	Status   string `json:"status"`   // por defecto, planned
	Priority string `json:"priority"` // por defecto, normal

	PlannedDate  *string    `json:"planned_date"` // YYYY-MM-DD
	PlannedStart *time.Time `json:"planned_start"`
	PlannedEnd   *time.Time `json:"planned_end"`

	EstimatedMinutes *int   `json:"estimated_minutes"`
	CalendarEventID  string `json:"calendar_event_id"`
	CalendarRef      string `json:"calendar_ref"`

	Assignments []AssignmentPayload    `json:"assignments"`
	Materials   []MaterialUsagePayload `json:"material_usage"`
	TimeEntries []TimeEntryPayload     `json:"time_entries"`
	Signature   *SignaturePayload      `json:"signature"`
}

// UpdateOrderRequest reemplazo completo de los escalares del padre.
// Assignments presente ⇒ reemplazo total del conjunto (no merge).
// Registros de tiempo, materiales y fotos NO se tocan aquí: mutan solo por
// sus operaciones dedicadas.
type UpdateOrderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Notes       string `json:"notes"`

	AccountID        string  `json:"account_id"`
	PropertyID       *string `json:"property_id"`
	RecipientID      *string `json:"recipient_id"`
	InvoiceAccountID *string `json:"invoice_account_id"`

	Status   string `json:"status"`
	Priority string `json:"priority"`

	PlannedDate  *string    `json:"planned_date"`
	PlannedStart *time.Time `json:"planned_start"`
	PlannedEnd   *time.Time `json:"planned_end"`
	ActualStart  *time.Time `json:"actual_start"`
	ActualEnd    *time.Time `json:"actual_end"`

	EstimatedMinutes *int   `json:"estimated_minutes"`
	CalendarEventID  string `json:"calendar_event_id"`
	CalendarRef      string `json:"calendar_ref"`

	Assignments *[]AssignmentPayload `json:"assignments"`
	Signature   OptionalSignature    `json:"signature"`
}

// UpdateStatusRequest cambio de estado de la orden.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CheckInRequest check-in geocercado de un empleado en el predio de la orden.
type CheckInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// ListOrdersQuery filtros del listado.
type ListOrdersQuery struct {
	From       string `query:"from"` // YYYY-MM-DD inclusivo
	To         string `query:"to"`
	Status     string `query:"status"` // un valor o lista separada por comas
	EmployeeID string `query:"employeeId"`
	OnlyActive bool   `query:"onlyActive"` // excluye completed y cancelled
}

// ── Responses ─────────────────────────────────────────────────────────────────

// AssignmentResponse asignación hidratada.
type AssignmentResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   string     `json:"employee_name,omitempty"`
	ScheduledDate  *string    `json:"scheduled_date"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	IsPrimary      bool       `json:"is_primary"`
}

// TimeEntryResponse registro de tiempo hidratado.
type TimeEntryResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    string     `json:"employee_name,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Source          string     `json:"source"`
	StartLat        *float64   `json:"start_lat,omitempty"`
	StartLng        *float64   `json:"start_lng,omitempty"`
	EndLat          *float64   `json:"end_lat,omitempty"`
	EndLng          *float64   `json:"end_lng,omitempty"`
	DistanceKM      *float64   `json:"distance_km,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// MaterialUsageResponse línea de material hidratada.
type MaterialUsageResponse struct {
	ID           string           `json:"id"`
	MaterialID   *string          `json:"material_id"`
	EmployeeID   *string          `json:"employee_id"`
	EmployeeName string           `json:"employee_name,omitempty"`
	Name         string           `json:"name"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Unit         string           `json:"unit"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// PhotoResponse foto hidratada.
type PhotoResponse struct {
	ID           string    `json:"id"`
	EmployeeID   *string   `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Data         string    `json:"data"`
	Caption      string    `json:"caption,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignatureResponse firma hidratada.
type SignatureResponse struct {
	ID         string    `json:"id"`
	SignerName string    `json:"signer_name"`
	SignedAt   time.Time `json:"signed_at"`
	Data       string    `json:"data"`
}

// OrderResponse agregado completo hidratado.
type OrderResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`

	AccountID          string  `json:"account_id"`
	AccountName        string  `json:"account_name,omitempty"`
	PropertyID         *string `json:"property_id"`
	PropertyName       string  `json:"property_name,omitempty"`
	PropertyAddress    string  `json:"property_address,omitempty"`
	RecipientID        *string `json:"recipient_id"`
	RecipientName      string  `json:"recipient_name,omitempty"`
	InvoiceAccountID   string  `json:"invoice_account_id"`
	InvoiceAccountName string  `json:"invoice_account_name,omitempty"`

	Status   string `json:"status"`
	Priority string `json:"priority"`

	PlannedDate  *string    `json:"planned_date"`
	PlannedStart *time.Time `json:"planned_start"`
	PlannedEnd   *time.Time `json:"planned_end"`
	ActualStart  *time.Time `json:"actual_start"`
	ActualEnd    *time.Time `json:"actual_end"`

	EstimatedMinutes *int   `json:"estimated_minutes"`
	CalendarEventID  string `json:"calendar_event_id,omitempty"`
	CalendarRef      string `json:"calendar_ref,omitempty"`

	Assignments []AssignmentResponse    `json:"assignments"`
	TimeEntries []TimeEntryResponse     `json:"time_entries"`
	Materials   []MaterialUsageResponse `json:"material_usage"`
	Photos      []PhotoResponse         `json:"photos"`
	Signature   *SignatureResponse      `json:"signature"`

	TotalTrackedMinutes int `json:"total_tracked_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderListResponse listado de órdenes hidratadas.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int             `json:"total"`
}

// CheckInResponse resultado de un check-in aceptado.
type CheckInResponse struct {
	Granted        bool           `json:"granted"`
	DistanceMeters float64        `json:"distance_meters"`
	Order          *OrderResponse `json:"order,omitempty"`
}
