package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con el set de repositorios del tenant activo.
// Run usa una transacción (Commit/Rollback); View va directo al pool.
type TxRunner struct {
	resolver *TenantResolver
}

// NewTxRunner construye el runner sobre el resolver de tenants.
func NewTxRunner(resolver *TenantResolver) *TxRunner {
	return &TxRunner{resolver: resolver}
}

// newSet ata todos los repositorios al mismo Querier (pool o tx).
func newSet(q Querier) repository.Set {
	return repository.Set{
		Products:  NewProductRepository(q),
		Movements: NewStockMovementRepository(q),
		Batches:   NewStockBatchRepository(q),
		Summaries: NewStockSummaryRepository(q),
		Drafts:    NewDraftSaleRepository(q),
		Sales:     NewSaleRepository(q),
		Sequences: NewSequenceRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(r repository.Set) error) error {
	pool, err := r.resolver.PoolFor(ctx)
	if err != nil {
		return err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newSet(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// View ejecuta fn con repos atados al pool, sin transacción (solo lectura).
func (r *TxRunner) View(ctx context.Context, fn func(r repository.Set) error) error {
	pool, err := r.resolver.PoolFor(ctx)
	if err != nil {
		return err
	}
	return fn(newSet(pool))
}
