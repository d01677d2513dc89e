package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/geo"
)

// CheckIn valida la posición GPS reportada por el empleado contra las
// coordenadas del predio de la orden antes de permitir que arranque un registro
// de tiempo. Dentro del radio (50 m por defecto) crea un registro abierto con
// origen gps y devuelve el agregado hidratado más la distancia medida; fuera
// del radio no crea nada y el GeofenceError lleva la distancia para que el
// cliente pueda explicar "estás a N metros". Devuelve nil, nil si la orden no existe.
func (uc *UseCase) CheckIn(orderID string, in dto.CheckInRequest) (*dto.CheckInResponse, error) {
	if in.EmployeeID == "" || !geo.ValidCoordinate(in.Latitude, in.Longitude) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	employee, err := uc.employeeRepo.GetByID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrNotFound
	}
	if order.PropertyID == nil {
		return nil, domain.ErrNoPropertyLocation
	}
	property, err := uc.propertyRepo.GetByID(*order.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil || !property.Geolocated() {
		return nil, domain.ErrNoPropertyLocation
	}

	distance := geo.Distance(in.Latitude, in.Longitude, *property.Lat, *property.Lng)
	if distance > uc.cfg.CheckInRadiusMeters {
		return nil, &domain.GeofenceError{
			DistanceMeters: distance,
			RadiusMeters:   uc.cfg.CheckInRadiusMeters,
		}
	}

	now := time.Now()
	lat, lng := in.Latitude, in.Longitude
	entry := &entity.TimeEntry{
		ID:             uuid.New().String(),
		ServiceOrderID: orderID,
		EmployeeID:     in.EmployeeID,
		StartTime:      now,
		Source:         entity.TimeSourceGPS,
		StartLat:       &lat,
		StartLng:       &lng,
		CreatedAt:      now,
	}
	if err := uc.timeRepo.Create(entry); err != nil {
		return nil, err
	}

	hydrated, err := uc.Get(orderID)
	if err != nil {
		return nil, err
	}
	return &dto.CheckInResponse{
		Granted:        true,
		DistanceMeters: distance,
		Order:          hydrated,
	}, nil
}
