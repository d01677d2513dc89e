package repository

import (
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes. From/To acotan la fecha
// planificada (inclusivo); Statuses vacío = todos los estados.
type OrderFilter struct {
	From     *time.Time
	To       *time.Time
	Statuses []string
}

// ServiceOrderRepository define el puerto de persistencia para la fila padre
// del agregado. Las colecciones hijas tienen sus propios puertos.
type ServiceOrderRepository interface {
	Create(order *entity.ServiceOrder) error
	// GetByID devuelve la fila padre decorada con los campos de presentación
	// de cuenta/predio/contacto/cuenta de facturación, o nil si no existe.
	GetByID(id string) (*entity.ServiceOrder, error)
	// Update reemplaza todos los campos escalares (full replace, no patch).
	Update(order *entity.ServiceOrder) error
	UpdateStatus(id, status string, updatedAt time.Time) (bool, error)
	// Delete elimina la orden; las hijas caen por cascade. Devuelve false si no existía.
	Delete(id string) (bool, error)
	// List devuelve órdenes decoradas ordenadas por fecha planificada,
	// inicio planificado e id, ascendente.
	List(filter OrderFilter) ([]*entity.ServiceOrder, error)
}
