package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo implementación de TimeEntryRepository (usable con pool o tx).
type TimeEntryRepo struct {
	q Querier
}

// NewTimeEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTimeEntryRepository(q Querier) *TimeEntryRepo {
	return &TimeEntryRepo{q: q}
}

// Create persiste un registro de tiempo.
func (r *TimeEntryRepo) Create(e *entity.TimeEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_order_time_entries (id, service_order_id, employee_id,
			start_time, end_time, duration_minutes, source,
			start_lat, start_lng, end_lat, end_lng, distance_km, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ServiceOrderID, e.EmployeeID,
		e.StartTime, e.EndTime, e.DurationMinutes, e.Source,
		e.StartLat, e.StartLng, e.EndLat, e.EndLng, e.DistanceKM, e.Notes, e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound // el empleado referenciado no existe
		}
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

const timeEntrySelect = `
	SELECT t.id, t.service_order_id, t.employee_id,
	       t.start_time, t.end_time, t.duration_minutes, t.source,
	       t.start_lat, t.start_lng, t.end_lat, t.end_lng, t.distance_km, t.notes, t.created_at,
	       COALESCE(e.name, '')
	FROM service_order_time_entries t
	LEFT JOIN employees e ON e.id = t.employee_id`

func scanTimeEntry(row pgx.Row) (*entity.TimeEntry, error) {
	var e entity.TimeEntry
	err := row.Scan(
		&e.ID, &e.ServiceOrderID, &e.EmployeeID,
		&e.StartTime, &e.EndTime, &e.DurationMinutes, &e.Source,
		&e.StartLat, &e.StartLng, &e.EndLat, &e.EndLng, &e.DistanceKM, &e.Notes, &e.CreatedAt,
		&e.EmployeeName,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID obtiene un registro de tiempo, o nil si no existe.
func (r *TimeEntryRepo) GetByID(id string) (*entity.TimeEntry, error) {
	row := r.q.QueryRow(context.Background(), timeEntrySelect+` WHERE t.id = $1`, id)
	entry, err := scanTimeEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get time entry: %w", err)
	}
	return entry, nil
}

// Update persiste los campos mutables del registro (la duración ya viene
// recalculada por el caso de uso cuando cambió la ventana).
func (r *TimeEntryRepo) Update(e *entity.TimeEntry) error {
	query := `
		UPDATE service_order_time_entries
		SET start_time = $2, end_time = $3, duration_minutes = $4, source = $5,
		    start_lat = $6, start_lng = $7, end_lat = $8, end_lng = $9,
		    distance_km = $10, notes = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.StartTime, e.EndTime, e.DurationMinutes, e.Source,
		e.StartLat, e.StartLng, e.EndLat, e.EndLng,
		e.DistanceKM, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	return nil
}

// Delete elimina un registro de tiempo. Devuelve false si no existía.
func (r *TimeEntryRepo) Delete(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM service_order_time_entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete time entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByOrder devuelve los registros de la orden ordenados por hora de inicio ascendente.
func (r *TimeEntryRepo) ListByOrder(orderID string) ([]entity.TimeEntry, error) {
	rows, err := r.q.Query(context.Background(),
		timeEntrySelect+` WHERE t.service_order_id = $1 ORDER BY t.start_time ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var out []entity.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		out = append(out, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	return out, nil
}
