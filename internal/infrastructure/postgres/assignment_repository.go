package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo implementación de AssignmentRepository (usable con pool o tx).
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// Create persiste una asignación.
func (r *AssignmentRepo) Create(a *entity.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_order_assignments (id, service_order_id, employee_id,
			scheduled_date, scheduled_start, scheduled_end, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.ServiceOrderID, a.EmployeeID,
		a.ScheduledDate, a.ScheduledStart, a.ScheduledEnd, a.IsPrimary, a.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound // el empleado referenciado no existe
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// ListByOrder devuelve las asignaciones de la orden decoradas con el nombre
// del empleado, ordenadas por fecha y hora de inicio programadas.
func (r *AssignmentRepo) ListByOrder(orderID string) ([]entity.Assignment, error) {
	query := `
		SELECT s.id, s.service_order_id, s.employee_id,
		       s.scheduled_date, s.scheduled_start, s.scheduled_end, s.is_primary, s.created_at,
		       COALESCE(e.name, '')
		FROM service_order_assignments s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.service_order_id = $1
		ORDER BY s.scheduled_date ASC, s.scheduled_start ASC, s.created_at ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []entity.Assignment
	for rows.Next() {
		var a entity.Assignment
		if err := rows.Scan(
			&a.ID, &a.ServiceOrderID, &a.EmployeeID,
			&a.ScheduledDate, &a.ScheduledStart, &a.ScheduledEnd, &a.IsPrimary, &a.CreatedAt,
			&a.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

// DeleteByOrder borra el conjunto completo de asignaciones de la orden
// (política replace del update).
func (r *AssignmentRepo) DeleteByOrder(orderID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM service_order_assignments WHERE service_order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	return nil
}

// OrderIDsByEmployee devuelve los ids de órdenes donde el empleado está asignado.
func (r *AssignmentRepo) OrderIDsByEmployee(employeeID string) (map[string]struct{}, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT DISTINCT service_order_id FROM service_order_assignments WHERE employee_id = $1`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("order ids by employee: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order ids by employee: %w", err)
	}
	return out, nil
}
