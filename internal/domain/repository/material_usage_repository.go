package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// MaterialUsageRepository define el puerto de persistencia para MaterialUsage.
type MaterialUsageRepository interface {
	Create(m *entity.MaterialUsage) error
	GetByID(id string) (*entity.MaterialUsage, error)
	Update(m *entity.MaterialUsage) error
	Delete(id string) (bool, error)
	// ListByOrder devuelve las líneas más recientes primero.
	ListByOrder(orderID string) ([]entity.MaterialUsage, error)
}
