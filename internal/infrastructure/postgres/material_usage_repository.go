package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

var _ repository.MaterialUsageRepository = (*MaterialUsageRepo)(nil)

// MaterialUsageRepo implementación de MaterialUsageRepository (usable con pool o tx).
type MaterialUsageRepo struct {
	q Querier
}

// NewMaterialUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialUsageRepository(q Querier) *MaterialUsageRepo {
	return &MaterialUsageRepo{q: q}
}

// Create persiste una línea de consumo. Quantity y unit_price van como NUMERIC
// (codec shopspring/decimal del pool).
func (r *MaterialUsageRepo) Create(m *entity.MaterialUsage) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_order_materials (id, service_order_id, material_id, employee_id,
			name, quantity, unit, unit_price, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ServiceOrderID, m.MaterialID, m.EmployeeID,
		m.Name, m.Quantity, m.Unit, m.UnitPrice, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert material usage: %w", err)
	}
	return nil
}

const materialSelect = `
	SELECT m.id, m.service_order_id, m.material_id, m.employee_id,
	       m.name, m.quantity, m.unit, m.unit_price, m.notes, m.created_at,
	       COALESCE(e.name, '')
	FROM service_order_materials m
	LEFT JOIN employees e ON e.id = m.employee_id`

func scanMaterialUsage(row pgx.Row) (*entity.MaterialUsage, error) {
	var m entity.MaterialUsage
	err := row.Scan(
		&m.ID, &m.ServiceOrderID, &m.MaterialID, &m.EmployeeID,
		&m.Name, &m.Quantity, &m.Unit, &m.UnitPrice, &m.Notes, &m.CreatedAt,
		&m.EmployeeName,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID obtiene una línea de consumo, o nil si no existe.
func (r *MaterialUsageRepo) GetByID(id string) (*entity.MaterialUsage, error) {
	row := r.q.QueryRow(context.Background(), materialSelect+` WHERE m.id = $1`, id)
	line, err := scanMaterialUsage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material usage: %w", err)
	}
	return line, nil
}

// Update persiste los campos mutables de la línea.
func (r *MaterialUsageRepo) Update(m *entity.MaterialUsage) error {
	query := `
		UPDATE service_order_materials
		SET name = $2, quantity = $3, unit = $4, unit_price = $5, notes = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.Quantity, m.Unit, m.UnitPrice, m.Notes,
	)
	if err != nil {
		return fmt.Errorf("update material usage: %w", err)
	}
	return nil
}

// Delete elimina una línea de consumo. Devuelve false si no existía.
func (r *MaterialUsageRepo) Delete(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM service_order_materials WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete material usage: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByOrder devuelve las líneas de la orden, más recientes primero.
func (r *MaterialUsageRepo) ListByOrder(orderID string) ([]entity.MaterialUsage, error) {
	rows, err := r.q.Query(context.Background(),
		materialSelect+` WHERE m.service_order_id = $1 ORDER BY m.created_at DESC, m.id DESC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list material usage: %w", err)
	}
	defer rows.Close()

	var out []entity.MaterialUsage
	for rows.Next() {
		line, err := scanMaterialUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material usage: %w", err)
		}
		out = append(out, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list material usage: %w", err)
	}
	return out, nil
}
