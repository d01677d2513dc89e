package entity

import "time"

// Photo es una foto adjunta a una orden (datos embebidos, base64 o data-URL).
type Photo struct {
	ID             string
	ServiceOrderID string
	EmployeeID     *string
	Data           string
	Caption        string
	CreatedAt      time.Time

	EmployeeName string // decoración
}
