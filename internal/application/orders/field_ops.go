package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

// Mutadores de ejecución en campo: cada uno hace una sola escritura y devuelve
// el agregado padre re-hidratado, nunca la fila hija suelta, para que el
// llamador siempre observe un todo consistente. Cuando el id referenciado no
// resuelve a una orden existente devuelven nil, nil (404 en el borde HTTP).

// AddTimeEntry agrega un registro de tiempo a la orden.
func (uc *UseCase) AddTimeEntry(orderID string, in dto.TimeEntryPayload) (*dto.OrderResponse, error) {
	parent, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	entry, err := buildTimeEntry(orderID, in, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.timeRepo.Create(entry); err != nil {
		return nil, err
	}
	return uc.Get(orderID)
}

// UpdateTimeEntry actualiza un registro de tiempo. La duración se recalcula
// siempre que cambian start o end y no viene explícita en el payload.
func (uc *UseCase) UpdateTimeEntry(entryID string, in dto.UpdateTimeEntryRequest) (*dto.OrderResponse, error) {
	entry, err := uc.timeRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	window := false
	if in.StartTime != nil {
		entry.StartTime = *in.StartTime
		window = true
	}
	if in.EndTime != nil {
		entry.EndTime = in.EndTime
		window = true
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes < 0 {
			return nil, domain.ErrInvalidInput
		}
		entry.DurationMinutes = in.DurationMinutes
	} else if window {
		entry.DurationMinutes = schedule.DeriveDurationMinutes(entry.StartTime, entry.EndTime)
	}
	if in.Source != nil {
		switch *in.Source {
		case entity.TimeSourceManual, entity.TimeSourceGPS, entity.TimeSourceMobile:
			entry.Source = *in.Source
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if in.EndLat != nil {
		entry.EndLat = in.EndLat
	}
	if in.EndLng != nil {
		entry.EndLng = in.EndLng
	}
	if in.DistanceKM != nil {
		entry.DistanceKM = in.DistanceKM
	}
	if in.Notes != nil {
		entry.Notes = *in.Notes
	}
	if err := uc.timeRepo.Update(entry); err != nil {
		return nil, err
	}
	return uc.Get(entry.ServiceOrderID)
}

// DeleteTimeEntry elimina un registro de tiempo; resuelve la orden dueña desde
// la fila hija antes de re-hidratar.
func (uc *UseCase) DeleteTimeEntry(entryID string) (*dto.OrderResponse, error) {
	entry, err := uc.timeRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	if _, err := uc.timeRepo.Delete(entryID); err != nil {
		return nil, err
	}
	return uc.Get(entry.ServiceOrderID)
}

// AddMaterialUsage agrega una línea de consumo de material a la orden.
// No descuenta stock: el ajuste de inventario es una operación explícita aparte.
func (uc *UseCase) AddMaterialUsage(orderID string, in dto.MaterialUsagePayload) (*dto.OrderResponse, error) {
	parent, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	line, err := uc.buildMaterialLine(orderID, in, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.materialRepo.Create(line); err != nil {
		return nil, err
	}
	return uc.Get(orderID)
}

// UpdateMaterialUsage actualiza una línea de consumo de material.
func (uc *UseCase) UpdateMaterialUsage(lineID string, in dto.UpdateMaterialUsageRequest) (*dto.OrderResponse, error) {
	line, err := uc.materialRepo.GetByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		line.Name = *in.Name
	}
	if in.Quantity != nil {
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		line.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		if *in.Unit == "" {
			return nil, domain.ErrInvalidInput
		}
		line.Unit = *in.Unit
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		line.UnitPrice = in.UnitPrice
	}
	if in.Notes != nil {
		line.Notes = *in.Notes
	}
	if err := uc.materialRepo.Update(line); err != nil {
		return nil, err
	}
	return uc.Get(line.ServiceOrderID)
}

// DeleteMaterialUsage elimina una línea de consumo de material.
func (uc *UseCase) DeleteMaterialUsage(lineID string) (*dto.OrderResponse, error) {
	line, err := uc.materialRepo.GetByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, nil
	}
	if _, err := uc.materialRepo.Delete(lineID); err != nil {
		return nil, err
	}
	return uc.Get(line.ServiceOrderID)
}

// AddPhoto adjunta una foto a la orden (caption opcional).
func (uc *UseCase) AddPhoto(orderID string, in dto.PhotoPayload) (*dto.OrderResponse, error) {
	if in.Data == "" {
		return nil, domain.ErrInvalidInput
	}
	parent, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	photo := &entity.Photo{
		ID:             uuid.New().String(),
		ServiceOrderID: orderID,
		EmployeeID:     in.EmployeeID,
		Data:           in.Data,
		Caption:        in.Caption,
		CreatedAt:      time.Now(),
	}
	if err := uc.photoRepo.Create(photo); err != nil {
		return nil, err
	}
	return uc.Get(orderID)
}

// DeletePhoto elimina una foto de la orden.
func (uc *UseCase) DeletePhoto(photoID string) (*dto.OrderResponse, error) {
	photo, err := uc.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, nil
	}
	if _, err := uc.photoRepo.Delete(photoID); err != nil {
		return nil, err
	}
	return uc.Get(photo.ServiceOrderID)
}

// SetSignature fija la firma de la orden (insert-or-replace por orden: nunca
// queda más de una fila).
func (uc *UseCase) SetSignature(orderID string, in dto.SignaturePayload) (*dto.OrderResponse, error) {
	if in.Data == "" {
		return nil, domain.ErrInvalidInput
	}
	parent, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	if err := uc.signatureRepo.Upsert(buildSignature(orderID, in, time.Now())); err != nil {
		return nil, err
	}
	return uc.Get(orderID)
}

// ClearSignature borra la firma de la orden. Idempotente: borrar una firma
// inexistente no es error.
func (uc *UseCase) ClearSignature(orderID string) (*dto.OrderResponse, error) {
	parent, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	if err := uc.signatureRepo.DeleteByOrder(orderID); err != nil {
		return nil, err
	}
	return uc.Get(orderID)
}
