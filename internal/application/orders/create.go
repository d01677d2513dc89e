package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

// Create crea la orden con sus hijas anidadas en una sola transacción:
// padre con defaults (status planned, priority normal, cuenta de facturación =
// cuenta), asignaciones heredando la ventana planificada, materiales, registros
// de tiempo con duración derivada y firma si trae datos. Cualquier fallo
// revierte todo: ninguna orden parcial queda visible. Devuelve el agregado
// recién hidratado.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.Title == "" || in.AccountID == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.OrderStatusPlanned
	}
	if !entity.KnownOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.OrderPriorityNormal
	}
	plannedDate, err := parseDatePtr(in.PlannedDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	// Validar referencias a maestros fuera de la tx (solo lectura).
	account, err := uc.accountRepo.GetByID(in.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	if in.PropertyID != nil {
		prop, err := uc.propertyRepo.GetByID(*in.PropertyID)
		if err != nil {
			return nil, err
		}
		if prop == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.RecipientID != nil {
		contact, err := uc.contactRepo.GetByID(*in.RecipientID)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	invoiceAccountID := in.AccountID
	if in.InvoiceAccountID != nil && *in.InvoiceAccountID != "" {
		invoiceAccountID = *in.InvoiceAccountID
	}
	order := &entity.ServiceOrder{
		ID:               uuid.New().String(),
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
		EstimatedMinutes: in.EstimatedMinutes,
		CalendarEventID:  in.CalendarEventID,
		CalendarRef:      in.CalendarRef,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	assignments, err := buildAssignments(in.Assignments, order, now)
	if err != nil {
		return nil, err
	}
	materials := make([]*entity.MaterialUsage, 0, len(in.Materials))
	for _, m := range in.Materials {
		line, err := uc.buildMaterialLine(order.ID, m, now)
		if err != nil {
			return nil, err
		}
		materials = append(materials, line)
	}
	entries := make([]*entity.TimeEntry, 0, len(in.TimeEntries))
	for _, te := range in.TimeEntries {
		entry, err := buildTimeEntry(order.ID, te, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	var signature *entity.Signature
	if in.Signature != nil && in.Signature.Data != "" {
		signature = buildSignature(order.ID, *in.Signature, now)
	}

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := r.Orders.Create(order); err != nil {
			return err
		}
		for _, a := range assignments {
			if err := r.Assignments.Create(a); err != nil {
				return err
			}
		}
		for _, m := range materials {
			if err := r.Materials.Create(m); err != nil {
				return err
			}
		}
		for _, e := range entries {
			if err := r.TimeEntries.Create(e); err != nil {
				return err
			}
		}
		if signature != nil {
			if err := r.Signatures.Upsert(signature); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.Get(order.ID)
}

// buildAssignments materializa las asignaciones anidadas: la ventana programada
// hereda la planificada del padre cuando no viene individual, y si ninguna fue
// marcada primaria explícitamente, la primera se fuerza primaria.
func buildAssignments(payloads []dto.AssignmentPayload, parent *entity.ServiceOrder, now time.Time) ([]*entity.Assignment, error) {
	if len(payloads) == 0 {
		return nil, nil
	}
	anyPrimary := false
	for _, p := range payloads {
		if p.IsPrimary != nil && *p.IsPrimary {
			anyPrimary = true
			break
		}
	}
	out := make([]*entity.Assignment, 0, len(payloads))
	for i, p := range payloads {
		if p.EmployeeID == "" {
			return nil, domain.ErrInvalidInput
		}
		schedDate, err := parseDatePtr(p.ScheduledDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if schedDate == nil {
			schedDate = parent.PlannedDate
		}
		start := p.ScheduledStart
		if start == nil {
			start = parent.PlannedStart
		}
		end := p.ScheduledEnd
		if end == nil {
			end = parent.PlannedEnd
		}
		primary := p.IsPrimary != nil && *p.IsPrimary
		if !anyPrimary && i == 0 {
			primary = true
		}
		out = append(out, &entity.Assignment{
			ID:             uuid.New().String(),
			ServiceOrderID: parent.ID,
			EmployeeID:     p.EmployeeID,
			ScheduledDate:  schedDate,
			ScheduledStart: start,
			ScheduledEnd:   end,
			IsPrimary:      primary,
			CreatedAt:      now,
		})
	}
	return out, nil
}

// buildTimeEntry valida y materializa un registro de tiempo, derivando la
// duración cuando no viene explícita.
func buildTimeEntry(orderID string, p dto.TimeEntryPayload, now time.Time) (*entity.TimeEntry, error) {
	if p.EmployeeID == "" || p.StartTime == nil {
		return nil, domain.ErrInvalidInput
	}
	source := p.Source
	if source == "" {
		source = entity.TimeSourceManual
	}
	switch source {
	case entity.TimeSourceManual, entity.TimeSourceGPS, entity.TimeSourceMobile:
	default:
		return nil, domain.ErrInvalidInput
	}
	duration := p.DurationMinutes
	if duration == nil {
		duration = schedule.DeriveDurationMinutes(*p.StartTime, p.EndTime)
	} else if *duration < 0 {
		return nil, domain.ErrInvalidInput
	}
	return &entity.TimeEntry{
		ID:              uuid.New().String(),
		ServiceOrderID:  orderID,
		EmployeeID:      p.EmployeeID,
		StartTime:       *p.StartTime,
		EndTime:         p.EndTime,
		DurationMinutes: duration,
		Source:          source,
		StartLat:        p.StartLat,
		StartLng:        p.StartLng,
		EndLat:          p.EndLat,
		EndLng:          p.EndLng,
		DistanceKM:      p.DistanceKM,
		Notes:           p.Notes,
		CreatedAt:       now,
	}, nil
}

// buildMaterialLine valida y materializa una línea de consumo. Si referencia un
// material del maestro, nombre/unidad/precio faltantes se completan desde él.
func (uc *UseCase) buildMaterialLine(orderID string, p dto.MaterialUsagePayload, now time.Time) (*entity.MaterialUsage, error) {
	name := p.Name
	unit := p.Unit
	unitPrice := p.UnitPrice
	if p.MaterialID != nil && *p.MaterialID != "" {
		master, err := uc.catalogRepo.GetByID(*p.MaterialID)
		if err != nil {
			return nil, err
		}
		if master == nil {
			return nil, domain.ErrNotFound
		}
		if name == "" {
			name = master.Name
		}
		if unit == "" {
			unit = master.Unit
		}
		if unitPrice == nil && !master.UnitPrice.IsZero() {
			price := master.UnitPrice
			unitPrice = &price
		}
	}
	if name == "" || unit == "" || !p.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if unitPrice != nil && unitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return &entity.MaterialUsage{
		ID:             uuid.New().String(),
		ServiceOrderID: orderID,
		MaterialID:     p.MaterialID,
		EmployeeID:     p.EmployeeID,
		Name:           name,
		Quantity:       p.Quantity,
		Unit:           unit,
		UnitPrice:      unitPrice,
		Notes:          p.Notes,
		CreatedAt:      now,
	}, nil
}

func buildSignature(orderID string, p dto.SignaturePayload, now time.Time) *entity.Signature {
	signedAt := now
	if p.SignedAt != nil {
		signedAt = *p.SignedAt
	}
	return &entity.Signature{
		ID:             uuid.New().String(),
		ServiceOrderID: orderID,
		SignerName:     p.SignerName,
		SignedAt:       signedAt,
		Data:           p.Data,
		CreatedAt:      now,
	}
}
