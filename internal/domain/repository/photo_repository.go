package repository

import "github.com/jhoicas/ServiCampo-api/internal/domain/entity"

// PhotoRepository define el puerto de persistencia para Photo.
type PhotoRepository interface {
	Create(p *entity.Photo) error
	GetByID(id string) (*entity.Photo, error)
	Delete(id string) (bool, error)
	// ListByOrder devuelve las fotos más recientes primero.
	ListByOrder(orderID string) ([]entity.Photo, error)
}
