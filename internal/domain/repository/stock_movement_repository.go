package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
)

// MovementFilter filtros opcionales para listar el libro. Cada campo presente
// se traduce a un predicado parametrizado (nunca concatenación de texto).
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto del libro de movimientos.
// Deliberadamente no existe Update ni Delete: el libro es append-only y las
// correcciones entran como movimientos compensatorios.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, int, error)
	// Totals hace el rescan completo del producto para el agregador.
	Totals(ctx context.Context, productID string) (inventory.LedgerTotals, error)
}
