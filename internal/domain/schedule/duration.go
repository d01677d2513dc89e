// Package schedule contiene la derivación de duraciones de los registros de tiempo.
package schedule

import (
	"math"
	"time"
)

// DeriveDurationMinutes deriva la duración en minutos de un registro de tiempo:
// round((end − start) / 60s), acotada a ≥ 0. Devuelve nil si end es nil
// (registro abierto). Un end anterior a start produce 0, nunca negativo.
func DeriveDurationMinutes(start time.Time, end *time.Time) *int {
	if end == nil {
		return nil
	}
	minutes := int(math.Round(end.Sub(start).Seconds() / 60))
	if minutes < 0 {
		minutes = 0
	}
	return &minutes
}
