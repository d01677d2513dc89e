package orders

import (
	"context"

	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
)

// TxRepos repositorios del agregado atados a una misma transacción.
type TxRepos struct {
	Orders      repository.ServiceOrderRepository
	Assignments repository.AssignmentRepository
	TimeEntries repository.TimeEntryRepository
	Materials   repository.MaterialUsageRepository
	Photos      repository.PhotoRepository
	Signatures  repository.SignatureRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios del agregado atados a esa tx. Garantiza que las escrituras
// multi-tabla del agregado sean todo-o-nada: ninguna orden parcial es visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
