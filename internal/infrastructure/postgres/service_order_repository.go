package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

// ServiceOrderRepo implementación de ServiceOrderRepository (usable con pool o tx).
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

// Create persiste la fila padre del agregado.
func (r *ServiceOrderRepo) Create(order *entity.ServiceOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_orders (id, title, description, notes,
			account_id, property_id, recipient_id, invoice_account_id,
			status, priority,
			planned_date, planned_start, planned_end, actual_start, actual_end,
			estimated_minutes, calendar_event_id, calendar_ref,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Title, order.Description, order.Notes,
		order.AccountID, order.PropertyID, order.RecipientID, order.InvoiceAccountID,
		order.Status, order.Priority,
		order.PlannedDate, order.PlannedStart, order.PlannedEnd, order.ActualStart, order.ActualEnd,
		order.EstimatedMinutes, order.CalendarEventID, order.CalendarRef,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service order: %w", err)
	}
	return nil
}

// Columnas del padre decoradas con los nombres de cuenta, cuenta de
// facturación, predio (con coordenadas) y contacto receptor.
const orderSelect = `
	SELECT o.id, o.title, o.description, o.notes,
	       o.account_id, o.property_id, o.recipient_id, o.invoice_account_id,
	       o.status, o.priority,
	       o.planned_date, o.planned_start, o.planned_end, o.actual_start, o.actual_end,
	       o.estimated_minutes, o.calendar_event_id, o.calendar_ref,
	       o.created_at, o.updated_at,
	       COALESCE(a.name, ''), COALESCE(ia.name, ''),
	       COALESCE(p.name, ''), COALESCE(p.address, ''), p.lat, p.lng,
	       COALESCE(c.name, '')
	FROM service_orders o
	LEFT JOIN accounts   a  ON a.id = o.account_id
	LEFT JOIN accounts   ia ON ia.id = o.invoice_account_id
	LEFT JOIN properties p  ON p.id = o.property_id
	LEFT JOIN contacts   c  ON c.id = o.recipient_id`

func scanOrder(row pgx.Row) (*entity.ServiceOrder, error) {
	var o entity.ServiceOrder
	err := row.Scan(
		&o.ID, &o.Title, &o.Description, &o.Notes,
		&o.AccountID, &o.PropertyID, &o.RecipientID, &o.InvoiceAccountID,
		&o.Status, &o.Priority,
		&o.PlannedDate, &o.PlannedStart, &o.PlannedEnd, &o.ActualStart, &o.ActualEnd,
		&o.EstimatedMinutes, &o.CalendarEventID, &o.CalendarRef,
		&o.CreatedAt, &o.UpdatedAt,
		&o.AccountName, &o.InvoiceAccountName,
		&o.PropertyName, &o.PropertyAddress, &o.PropertyLat, &o.PropertyLng,
		&o.RecipientName,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID obtiene la fila padre decorada, o nil si no existe.
func (r *ServiceOrderRepo) GetByID(id string) (*entity.ServiceOrder, error) {
	row := r.q.QueryRow(context.Background(), orderSelect+` WHERE o.id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service order: %w", err)
	}
	return order, nil
}

// Update reemplaza todos los campos escalares del padre (full replace).
func (r *ServiceOrderRepo) Update(order *entity.ServiceOrder) error {
	query := `
		UPDATE service_orders
		SET title = $2, description = $3, notes = $4,
		    account_id = $5, property_id = $6, recipient_id = $7, invoice_account_id = $8,
		    status = $9, priority = $10,
		    planned_date = $11, planned_start = $12, planned_end = $13,
		    actual_start = $14, actual_end = $15,
		    estimated_minutes = $16, calendar_event_id = $17, calendar_ref = $18,
		    updated_at = $19
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Title, order.Description, order.Notes,
		order.AccountID, order.PropertyID, order.RecipientID, order.InvoiceAccountID,
		order.Status, order.Priority,
		order.PlannedDate, order.PlannedStart, order.PlannedEnd,
		order.ActualStart, order.ActualEnd,
		order.EstimatedMinutes, order.CalendarEventID, order.CalendarRef,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service order: %w", err)
	}
	return nil
}

// UpdateStatus guarda el estado; devuelve false si la orden no existe.
func (r *ServiceOrderRepo) UpdateStatus(id, status string, updatedAt time.Time) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE service_orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update service order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete elimina la orden; asignaciones, tiempos, materiales, fotos y firma
// caen por ON DELETE CASCADE. Devuelve false si no existía.
func (r *ServiceOrderRepo) Delete(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM service_orders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete service order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List devuelve órdenes decoradas filtradas por fecha planificada y estado,
// ordenadas por fecha planificada, inicio planificado e id, ascendente.
// Las fechas planificadas NULL quedan donde el motor las ponga (NULLS LAST en ASC).
func (r *ServiceOrderRepo) List(filter repository.OrderFilter) ([]*entity.ServiceOrder, error) {
	query := orderSelect
	var args []any
	var where []string
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("o.planned_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("o.planned_date <= $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		where = append(where, fmt.Sprintf("o.status = ANY($%d)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY o.planned_date ASC, o.planned_start ASC, o.id ASC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list service orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.ServiceOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service order: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list service orders: %w", err)
	}
	return out, nil
}
