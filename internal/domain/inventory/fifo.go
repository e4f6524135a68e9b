package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// BatchAllocation es una porción de consumo asignada a un lote concreto.
type BatchAllocation struct {
	Batch    *entity.StockBatch
	Quantity decimal.Decimal
}

// PlanFIFO arma el plan de consumo de un producto: lotes activos ordenados por
// vencimiento ascendente (sale primero el que vence antes, no el más antiguo),
// descontando a través de lotes hasta satisfacer la cantidad pedida.
// La disponibilidad se verifica completa ANTES de tocar cualquier lote: si la
// suma de cantidades activas no alcanza, retorna *domain.InsufficientStockError
// y ningún lote queda mutado. Nunca consumo parcial ni negativo.
func PlanFIFO(productID string, batches []*entity.StockBatch, requested decimal.Decimal) ([]BatchAllocation, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	active := make([]*entity.StockBatch, 0, len(batches))
	available := decimal.Zero
	for _, b := range batches {
		if !b.IsActive || !b.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		active = append(active, b)
		available = available.Add(b.Quantity)
	}
	if available.LessThan(requested) {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: requested,
			Available: available,
		}
	}

	// El repositorio ya ordena por vencimiento; reordenar aquí mantiene la
	// invariante aunque el caller pase los lotes en otro orden.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].ExpiryDate.Before(active[j].ExpiryDate)
	})

	var plan []BatchAllocation
	remaining := requested
	for _, b := range active {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(b.Quantity, remaining)
		plan = append(plan, BatchAllocation{Batch: b, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return plan, nil
}

// ApplyAllocation descuenta la porción asignada sobre el lote. Al llegar la
// cantidad exactamente a 0 el lote se desactiva.
func ApplyAllocation(a BatchAllocation, now time.Time) {
	b := a.Batch
	b.Quantity = b.Quantity.Sub(a.Quantity)
	b.TotalCost = b.Quantity.Mul(b.UnitCost)
	if b.Quantity.IsZero() {
		b.IsActive = false
	}
	b.UpdatedAt = now
}
