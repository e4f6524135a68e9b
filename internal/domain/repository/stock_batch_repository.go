package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// StockBatchRepository define el puerto de persistencia para lotes.
type StockBatchRepository interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	// ListByProduct retorna lotes ordenados por vencimiento ascendente.
	ListByProduct(ctx context.Context, productID string, activeOnly bool) ([]*entity.StockBatch, error)
	// ListActiveForUpdate bloquea los lotes activos del producto (SELECT FOR UPDATE)
	// ordenados por vencimiento ascendente, para consumo FIFO sin doble asignación.
	ListActiveForUpdate(ctx context.Context, productID string) ([]*entity.StockBatch, error)
	// ListExpiring retorna lotes activos que vencen antes de la fecha dada, el más próximo primero.
	ListExpiring(ctx context.Context, before time.Time) ([]*entity.StockBatch, error)
	// Update persiste cantidad, costo total, estado activo y updated_at.
	Update(ctx context.Context, batch *entity.StockBatch) error
}
