package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// SignatureRepository define el puerto de persistencia para Signature (0..1 por orden).
type SignatureRepository interface {
	// Upsert inserta o reemplaza la firma de la orden (clave única por orden).
	Upsert(s *entity.Signature) error
	GetByOrder(orderID string) (*entity.Signature, error)
	// DeleteByOrder es idempotente: borrar una firma inexistente no es error.
	DeleteByOrder(orderID string) error
}
