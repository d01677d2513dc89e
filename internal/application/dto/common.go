package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// DistanceMeters solo se llena en rechazos de geocerca, para que el
	// cliente pueda mostrar a cuántos metros está del predio.
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// DateLayout formato de fechas sin hora en la API (planned_date, scheduled_date).
const DateLayout = "2006-01-02"
