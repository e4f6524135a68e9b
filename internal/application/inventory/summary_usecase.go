package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// SummaryUseCase es el agregador: deriva la vista por producto desde el libro
// y los lotes. Upsert last-writer-wins: es una caché, no un libro.
type SummaryUseCase struct {
	txRunner TxRunner
	alerts   domaininv.AlertConfig
}

// NewSummaryUseCase construye el agregador con sus umbrales de alerta.
func NewSummaryUseCase(txRunner TxRunner, alerts domaininv.AlertConfig) *SummaryUseCase {
	return &SummaryUseCase{txRunner: txRunner, alerts: alerts}
}

// RecomputeInTx hace el rescan completo del producto usando los repositorios
// del caller (misma transacción). Toda operación que muta el libro DEBE llamar
// esto antes de confirmar, para que ningún caller observe una vista desfasada.
func (uc *SummaryUseCase) RecomputeInTx(ctx context.Context, r repository.Set, productID string, now time.Time) (*entity.StockSummary, error) {
	product, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	totals, err := r.Movements.Totals(ctx, productID)
	if err != nil {
		return nil, err
	}
	batches, err := r.Batches.ListByProduct(ctx, productID, true)
	if err != nil {
		return nil, err
	}
	summary := domaininv.BuildSummary(product, totals, batches, uc.alerts, now)
	if err := r.Summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// Recompute recalcula la vista de un producto en su propia transacción
// (POST /api/stock/summary/recalculate/:productId).
func (uc *SummaryUseCase) Recompute(ctx context.Context, productID string) (*dto.SummaryResponse, error) {
	var summary *entity.StockSummary
	err := uc.txRunner.Run(ctx, func(r repository.Set) error {
		var err error
		summary, err = uc.RecomputeInTx(ctx, r, productID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSummaryResponse(summary), nil
}

// Get retorna la vista de un producto; si aún no existe la computa en el momento.
func (uc *SummaryUseCase) Get(ctx context.Context, productID string) (*dto.SummaryResponse, error) {
	var summary *entity.StockSummary
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		summary, err = r.Summaries.Get(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return uc.Recompute(ctx, productID)
	}
	return toSummaryResponse(summary), nil
}

// List retorna la vista agregada paginada.
func (uc *SummaryUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SummaryResponse, error) {
	page.DefaultPage()
	var list []*entity.StockSummary
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		list, err = r.Summaries.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSummaryResponse(s))
	}
	return out, nil
}

// Alerts retorna los productos que requieren atención,
// ordenados vencido > stock bajo > por vencer.
func (uc *SummaryUseCase) Alerts(ctx context.Context) ([]dto.SummaryResponse, error) {
	var list []*entity.StockSummary
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		list, err = r.Summaries.ListNeedingAttention(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSummaryResponse(s))
	}
	return out, nil
}

func toSummaryResponse(s *entity.StockSummary) *dto.SummaryResponse {
	return &dto.SummaryResponse{
		ProductID:        s.ProductID,
		TotalTracked:     s.TotalTracked,
		TotalUntracked:   s.TotalUntracked,
		TotalQuantity:    s.TotalQuantity,
		TotalValue:       s.TotalValue,
		AverageCost:      s.AverageCost,
		LastMovementDate: s.LastMovementDate,
		HasLowStock:      s.HasLowStock,
		HasExpiringSoon:  s.HasExpiringSoon,
		HasExpired:       s.HasExpired,
		NeedsAttention:   s.NeedsAttention,
	}
}
