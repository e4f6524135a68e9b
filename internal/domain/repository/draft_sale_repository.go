package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// DraftSaleRepository define el puerto de persistencia para carritos en progreso.
type DraftSaleRepository interface {
	// ListOpen retorna pestañas no completadas ordenadas por display_order.
	ListOpen(ctx context.Context) ([]*entity.DraftSaleTab, error)
	GetByID(ctx context.Context, tabID string) (*entity.DraftSaleTab, error)
	// Upsert reemplaza la pestaña completa (label, items, display_order).
	Upsert(ctx context.Context, tab *entity.DraftSaleTab) error
	Delete(ctx context.Context, tabID string) error
	// MarkCompleted marca la pestaña como liquidada (soft); se conserva para auditoría.
	MarkCompleted(ctx context.Context, tabID string, at time.Time) error
}
