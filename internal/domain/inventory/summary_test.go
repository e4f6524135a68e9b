package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
)

func testProduct(reorderPoint int64) *entity.Product {
	return &entity.Product{
		ID:           "prod-1",
		Name:         "Acetaminofén 500mg",
		TrackingType: entity.TrackingBatch,
		ReorderPoint: decimal.NewFromInt(reorderPoint),
	}
}

var testAlerts = inventory.AlertConfig{
	LowStockThreshold: decimal.NewFromInt(10),
	ExpiringSoonDays:  180,
}

// El costo promedio sale de las entradas con costo; el valor total lo acompaña.
func TestBuildSummary_CostoPromedio(t *testing.T) {
	now := time.Now()
	totals := inventory.LedgerTotals{
		UntrackedQuantity: dec(30),
		TotalQuantity:     dec(30),
		CostQuantity:      dec(40),
		CostValue:         dec(5000), // promedio 125
	}

	s := inventory.BuildSummary(testProduct(0), totals, nil, testAlerts, now)

	assert.True(t, s.AverageCost.Equal(dec(125)))
	assert.True(t, s.TotalValue.Equal(dec(3750)), "30 unidades a costo promedio 125")
}

// Producto sin movimientos: todo en cero, sin alertas de vencimiento, pero el
// umbral de stock bajo sí aplica (0 <= umbral).
func TestBuildSummary_ProductoVacio(t *testing.T) {
	now := time.Now()

	s := inventory.BuildSummary(testProduct(0), inventory.LedgerTotals{}, nil, testAlerts, now)

	assert.True(t, s.TotalQuantity.IsZero())
	assert.True(t, s.AverageCost.IsZero())
	assert.True(t, s.HasLowStock)
	assert.False(t, s.HasExpired)
	assert.False(t, s.HasExpiringSoon)
}

// Recompute idempotente: dos corridas sobre el mismo libro producen lo mismo.
func TestBuildSummary_Idempotente(t *testing.T) {
	now := time.Now()
	totals := inventory.LedgerTotals{
		TrackedQuantity:   dec(5),
		UntrackedQuantity: dec(20),
		TotalQuantity:     dec(25),
		CostQuantity:      dec(25),
		CostValue:         dec(2500),
	}
	batches := []*entity.StockBatch{newBatch("b1", now.AddDate(1, 0, 0), 20)}

	s1 := inventory.BuildSummary(testProduct(0), totals, batches, testAlerts, now)
	s2 := inventory.BuildSummary(testProduct(0), totals, batches, testAlerts, now)

	require.NotNil(t, s1)
	assert.Equal(t, s1, s2)
}

// El ReorderPoint del producto manda sobre el umbral global.
func TestBuildSummary_ReorderPointDelProducto(t *testing.T) {
	now := time.Now()
	totals := inventory.LedgerTotals{TotalQuantity: dec(15)}

	// Con umbral global 10, 15 unidades no son stock bajo.
	s := inventory.BuildSummary(testProduct(0), totals, nil, testAlerts, now)
	assert.False(t, s.HasLowStock)

	// Con ReorderPoint 20 del producto, 15 sí lo son.
	s = inventory.BuildSummary(testProduct(20), totals, nil, testAlerts, now)
	assert.True(t, s.HasLowStock)
}

// Las banderas de vencimiento salen del escaneo de lotes activos.
func TestBuildSummary_BanderasDeVencimiento(t *testing.T) {
	now := time.Now()
	totals := inventory.LedgerTotals{TotalQuantity: dec(100)}

	expired := newBatch("b1", now.AddDate(0, 0, -1), 5)
	expiringSoon := newBatch("b2", now.AddDate(0, 0, 30), 5)
	healthy := newBatch("b3", now.AddDate(2, 0, 0), 5)

	s := inventory.BuildSummary(testProduct(0), totals, []*entity.StockBatch{expired, expiringSoon, healthy}, testAlerts, now)
	assert.True(t, s.HasExpired)
	assert.True(t, s.HasExpiringSoon)
	assert.True(t, s.NeedsAttention)

	// Un lote vencido pero inactivo no dispara la alerta.
	expired.IsActive = false
	s = inventory.BuildSummary(testProduct(0), totals, []*entity.StockBatch{expired, healthy}, testAlerts, now)
	assert.False(t, s.HasExpired)
	assert.False(t, s.HasExpiringSoon)
	assert.False(t, s.NeedsAttention)
}
