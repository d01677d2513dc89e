package entity

import "time"

// Origen de un registro de tiempo.
const (
	TimeSourceManual = "manual"
	TimeSourceGPS    = "gps"
	TimeSourceMobile = "mobile"
)

// TimeEntry es un registro de tiempo de un empleado sobre una orden.
// Sin EndTime es un registro "abierto" (cronómetro corriendo).
// DurationMinutes se guarda canónicamente en cada escritura; si falta
// (filas antiguas) se deriva en la lectura sin mutar el almacenamiento.
type TimeEntry struct {
	ID              string
	ServiceOrderID  string
	EmployeeID      string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Source          string // manual, gps, mobile
	StartLat        *float64
	StartLng        *float64
	EndLat          *float64
	EndLng          *float64
	DistanceKM      *float64 // distancia recorrida reportada por el móvil
	Notes           string
	CreatedAt       time.Time

	EmployeeName string // decoración
}

// Open indica si el registro sigue abierto (cronómetro sin detener).
func (t *TimeEntry) Open() bool { return t.EndTime == nil }
