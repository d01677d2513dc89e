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

var _ repository.SignatureRepository = (*SignatureRepo)(nil)

// SignatureRepo implementación de SignatureRepository (usable con pool o tx).
type SignatureRepo struct {
	q Querier
}

// NewSignatureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSignatureRepository(q Querier) *SignatureRepo {
	return &SignatureRepo{q: q}
}

// Upsert inserta o reemplaza la firma de la orden. La columna service_order_id
// es UNIQUE: el ON CONFLICT garantiza que nunca quede más de una fila.
func (r *SignatureRepo) Upsert(s *entity.Signature) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO service_order_signatures (id, service_order_id, signer_name, signed_at, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (service_order_id)
		DO UPDATE SET signer_name = EXCLUDED.signer_name,
		              signed_at   = EXCLUDED.signed_at,
		              data        = EXCLUDED.data`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ServiceOrderID, s.SignerName, s.SignedAt, s.Data, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert signature: %w", err)
	}
	return nil
}

// GetByOrder obtiene la firma de la orden, o nil si no tiene.
func (r *SignatureRepo) GetByOrder(orderID string) (*entity.Signature, error) {
	var s entity.Signature
	err := r.q.QueryRow(context.Background(), `
		SELECT id, service_order_id, signer_name, signed_at, data, created_at
		FROM service_order_signatures WHERE service_order_id = $1`, orderID).Scan(
		&s.ID, &s.ServiceOrderID, &s.SignerName, &s.SignedAt, &s.Data, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get signature: %w", err)
	}
	return &s, nil
}

// DeleteByOrder borra la firma de la orden. Idempotente.
func (r *SignatureRepo) DeleteByOrder(orderID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM service_order_signatures WHERE service_order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete signature: %w", err)
	}
	return nil
}
