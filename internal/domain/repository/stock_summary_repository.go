package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// StockSummaryRepository define el puerto de la vista agregada por producto.
// Solo el agregador escribe aquí; es una caché, no un libro.
type StockSummaryRepository interface {
	// Upsert inserta o reemplaza la fila del producto (last-writer-wins).
	Upsert(ctx context.Context, summary *entity.StockSummary) error
	Get(ctx context.Context, productID string) (*entity.StockSummary, error)
	List(ctx context.Context, limit, offset int) ([]*entity.StockSummary, error)
	// ListNeedingAttention retorna productos con alertas, ordenados
	// vencido > stock bajo > por vencer.
	ListNeedingAttention(ctx context.Context) ([]*entity.StockSummary, error)
}
