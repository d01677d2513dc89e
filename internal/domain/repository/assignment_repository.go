package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// AssignmentRepository define el puerto de persistencia para Assignment.
type AssignmentRepository interface {
	Create(a *entity.Assignment) error
	// ListByOrder devuelve las asignaciones ordenadas por fecha y hora de inicio programadas.
	ListByOrder(orderID string) ([]entity.Assignment, error)
	// DeleteByOrder borra el conjunto completo (política replace del update).
	DeleteByOrder(orderID string) error
	// OrderIDsByEmployee devuelve los ids de órdenes donde el empleado está asignado
	// (post-filtro employeeId del listado).
	OrderIDsByEmployee(employeeID string) (map[string]struct{}, error)
}
