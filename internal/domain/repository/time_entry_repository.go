package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// TimeEntryRepository define el puerto de persistencia para TimeEntry.
type TimeEntryRepository interface {
	Create(e *entity.TimeEntry) error
	GetByID(id string) (*entity.TimeEntry, error)
	Update(e *entity.TimeEntry) error
	Delete(id string) (bool, error)
	// ListByOrder devuelve los registros ordenados por hora de inicio ascendente.
	ListByOrder(orderID string) ([]entity.TimeEntry, error)
}
