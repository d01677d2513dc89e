package orders

import (
	"context"
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// Update reemplaza todos los campos escalares del padre (full replace, no
// patch) dentro de una transacción. Si el payload trae assignments, el conjunto
// existente se borra y se reemplaza completo — política deliberada de "última
// escritura gana", no un merge. La firma es tri-estado: clave ausente conserva,
// null borra, objeto con datos upserta. Tiempos, materiales y fotos no se tocan
// aquí: crecen por eventos independientes vía sus operaciones dedicadas.
// Devuelve nil, nil si la orden no existe.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	existing, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if in.Title == "" || in.AccountID == "" {
		return nil, domain.ErrInvalidInput
	}
	// Formularios viejos pueden omitir status/priority: conservar el actual.
	status := in.Status
	if status == "" {
		status = existing.Status
	}
	if !entity.KnownOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	if priority == "" {
		priority = existing.Priority
	}
	plannedDate, err := parseDatePtr(in.PlannedDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	invoiceAccountID := in.AccountID
	if in.InvoiceAccountID != nil && *in.InvoiceAccountID != "" {
		invoiceAccountID = *in.InvoiceAccountID
	}
	order := &entity.ServiceOrder{
		ID:               id,
		Title:            in.Title,
		Description:      in.Description,
		Notes:            in.Notes,
		AccountID:        in.AccountID,
		PropertyID:       in.PropertyID,
		RecipientID:      in.RecipientID,
		InvoiceAccountID: invoiceAccountID,
		Status:           status,
		Priority:         priority,
		PlannedDate:      plannedDate,
		PlannedStart:     in.PlannedStart,
		PlannedEnd:       in.PlannedEnd,
		ActualStart:      in.ActualStart,
		ActualEnd:        in.ActualEnd,
		EstimatedMinutes: in.EstimatedMinutes,
		CalendarEventID:  in.CalendarEventID,
		CalendarRef:      in.CalendarRef,
		CreatedAt:        existing.CreatedAt,
		UpdatedAt:        now,
	}

	var assignments []*entity.Assignment
	if in.Assignments != nil {
		assignments, err = buildAssignments(*in.Assignments, order, now)
		if err != nil {
			return nil, err
		}
	}
	var signature *entity.Signature
	if in.Signature.Present && in.Signature.Value != nil && in.Signature.Value.Data != "" {
		signature = buildSignature(id, *in.Signature.Value, now)
	}

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := r.Orders.Update(order); err != nil {
			return err
		}
		if in.Assignments != nil {
			if err := r.Assignments.DeleteByOrder(id); err != nil {
				return err
			}
			for _, a := range assignments {
				if err := r.Assignments.Create(a); err != nil {
					return err
				}
			}
		}
		if in.Signature.Present {
			if signature != nil {
				return r.Signatures.Upsert(signature)
			}
			// signature: null (o sin datos) ⇒ borrar la existente
			return r.Signatures.DeleteByOrder(id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.Get(id)
}

// UpdateStatus guarda el nuevo estado. Validación permisiva a propósito: solo
// exige uno de los cuatro estados conocidos, sin imponer el grafo
// planned→in_progress→completed (los llamadores existentes dependen de eso).
// Devuelve nil, nil si la orden no existe.
func (uc *UseCase) UpdateStatus(id, status string) (*dto.OrderResponse, error) {
	if !entity.KnownOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	found, err := uc.orderRepo.UpdateStatus(id, status, time.Now())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return uc.Get(id)
}
