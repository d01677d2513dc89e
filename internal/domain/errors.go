package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrNoPropertyLocation = errors.New("la orden no tiene predio geolocalizado")
)

// GeofenceError rechaza un check-in fuera del radio permitido. Es un resultado
// esperado del negocio, no una falla del sistema: lleva la distancia medida
// para que el cliente pueda mostrar "estás a N metros".
type GeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("check-in fuera del radio permitido: %.0f m (máximo %.0f m)", e.DistanceMeters, e.RadiusMeters)
}

// IsGeofenceDenied indica si err es un rechazo por geocerca y devuelve el detalle.
func IsGeofenceDenied(err error) (*GeofenceError, bool) {
	var ge *GeofenceError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
