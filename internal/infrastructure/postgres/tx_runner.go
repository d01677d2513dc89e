package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ServiCampo-api/internal/application/orders"
)

// Ensure TxRunner implements orders.TxRunner.
var _ orders.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// El alcance de la tx es explícito: los repositorios que recibe el callback
// están atados a ella, no hay estado ambiente.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del agregado atados a la
// tx y hace Commit o Rollback. Si fn falla, ninguna escritura queda visible.
func (r *TxRunner) Run(ctx context.Context, fn func(repos orders.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := orders.TxRepos{
		Orders:      NewServiceOrderRepository(tx),
		Assignments: NewAssignmentRepository(tx),
		TimeEntries: NewTimeEntryRepository(tx),
		Materials:   NewMaterialUsageRepository(tx),
		Photos:      NewPhotoRepository(tx),
		Signatures:  NewSignatureRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
