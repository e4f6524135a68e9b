package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// LedgerTotals es el resultado del rescan completo del libro para un producto.
// CostQuantity/CostValue acumulan solo entradas positivas con costo unitario,
// para derivar el costo promedio ponderado.
type LedgerTotals struct {
	TrackedQuantity   decimal.Decimal // movimientos con número de serie
	UntrackedQuantity decimal.Decimal // movimientos a granel
	TotalQuantity     decimal.Decimal
	CostQuantity      decimal.Decimal
	CostValue         decimal.Decimal
	LastMovement      *time.Time
}

// AlertConfig umbrales para las banderas de alerta de la vista agregada.
type AlertConfig struct {
	LowStockThreshold decimal.Decimal // umbral global; el ReorderPoint del producto lo sobreescribe
	ExpiringSoonDays  int
}

// BuildSummary deriva la vista agregada de un producto desde los totales del
// libro y el escaneo de lotes activos. Es una función pura: dos llamadas sobre
// un libro sin cambios producen el mismo resultado (recompute idempotente).
// Las banderas de vencimiento SÍ se derivan del escaneo de lotes.
func BuildSummary(product *entity.Product, totals LedgerTotals, batches []*entity.StockBatch, cfg AlertConfig, now time.Time) *entity.StockSummary {
	s := &entity.StockSummary{
		ProductID:        product.ID,
		TotalTracked:     totals.TrackedQuantity,
		TotalUntracked:   totals.UntrackedQuantity,
		TotalQuantity:    totals.TotalQuantity,
		LastMovementDate: totals.LastMovement,
		UpdatedAt:        now,
	}

	if totals.CostQuantity.GreaterThan(decimal.Zero) {
		s.AverageCost = totals.CostValue.Div(totals.CostQuantity)
	}
	s.TotalValue = s.TotalQuantity.Mul(s.AverageCost)

	threshold := cfg.LowStockThreshold
	if product.ReorderPoint.GreaterThan(decimal.Zero) {
		threshold = product.ReorderPoint
	}
	s.HasLowStock = threshold.GreaterThan(decimal.Zero) && s.TotalQuantity.LessThanOrEqual(threshold)

	window := time.Duration(cfg.ExpiringSoonDays) * 24 * time.Hour
	for _, b := range batches {
		if !b.IsActive || !b.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		if b.IsExpired(now) {
			s.HasExpired = true
		} else if b.ExpiresWithin(now, window) {
			s.HasExpiringSoon = true
		}
	}

	s.NeedsAttention = s.HasLowStock || s.HasExpiringSoon || s.HasExpired
	return s
}
