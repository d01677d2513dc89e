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

var _ repository.PhotoRepository = (*PhotoRepo)(nil)

// PhotoRepo implementación de PhotoRepository (usable con pool o tx).
type PhotoRepo struct {
	q Querier
}

// NewPhotoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPhotoRepository(q Querier) *PhotoRepo {
	return &PhotoRepo{q: q}
}

// Create persiste una foto (datos embebidos).
func (r *PhotoRepo) Create(p *entity.Photo) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_order_photos (id, service_order_id, employee_id, data, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ServiceOrderID, p.EmployeeID, p.Data, p.Caption, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

const photoSelect = `
	SELECT p.id, p.service_order_id, p.employee_id, p.data, p.caption, p.created_at,
	       COALESCE(e.name, '')
	FROM service_order_photos p
	LEFT JOIN employees e ON e.id = p.employee_id`

// GetByID obtiene una foto, o nil si no existe.
func (r *PhotoRepo) GetByID(id string) (*entity.Photo, error) {
	var p entity.Photo
	err := r.q.QueryRow(context.Background(), photoSelect+` WHERE p.id = $1`, id).Scan(
		&p.ID, &p.ServiceOrderID, &p.EmployeeID, &p.Data, &p.Caption, &p.CreatedAt,
		&p.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return &p, nil
}

// Delete elimina una foto. Devuelve false si no existía.
func (r *PhotoRepo) Delete(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM service_order_photos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete photo: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByOrder devuelve las fotos de la orden, más recientes primero.
func (r *PhotoRepo) ListByOrder(orderID string) ([]entity.Photo, error) {
	rows, err := r.q.Query(context.Background(),
		photoSelect+` WHERE p.service_order_id = $1 ORDER BY p.created_at DESC, p.id DESC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var out []entity.Photo
	for rows.Next() {
		var p entity.Photo
		if err := rows.Scan(
			&p.ID, &p.ServiceOrderID, &p.EmployeeID, &p.Data, &p.Caption, &p.CreatedAt,
			&p.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return out, nil
}
