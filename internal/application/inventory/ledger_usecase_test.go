package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
)

const testUserID = "bodeguero-1"

type ledgerEnv struct {
	store  *memStore
	ledger *inventory.LedgerUseCase
	batch  *inventory.BatchUseCase
	sum    *inventory.SummaryUseCase
}

// newLedgerEnv arma el catálogo mínimo: un producto por lotes y uno serializado.
func newLedgerEnv() *ledgerEnv {
	store := newMemStore()
	store.products["med"] = &entity.Product{
		ID: "med", Name: "Ibuprofeno 400mg", TrackingType: entity.TrackingBatch,
		SalePrice: d(800), UnitCost: d(100),
	}
	store.products["dev"] = &entity.Product{
		ID: "dev", Name: "Glucómetro", TrackingType: entity.TrackingSerialized,
		SalePrice: d(9000), UnitCost: d(300),
	}
	runner := &fakeTxRunner{store: store}
	sum := inventory.NewSummaryUseCase(runner, domaininv.AlertConfig{
		LowStockThreshold: d(5),
		ExpiringSoonDays:  90,
	})
	return &ledgerEnv{
		store:  store,
		ledger: inventory.NewLedgerUseCase(runner, sum),
		batch:  inventory.NewBatchUseCase(runner, sum, 90),
		sum:    sum,
	}
}

func (e *ledgerEnv) seedBatch(id string, expiry time.Time, qty, cost int64) {
	e.store.batches[id] = &entity.StockBatch{
		ID: id, ProductID: "med", BatchNumber: "LOTE-" + id,
		ExpiryDate: expiry,
		Quantity:   d(qty), InitialQuantity: d(qty),
		UnitCost: d(cost), TotalCost: d(qty * cost), IsActive: true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Record — validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_Validaciones(t *testing.T) {
	env := newLedgerEnv()
	cost := d(100)
	negCost := d(-1)

	cases := []struct {
		name string
		req  dto.RecordMovementRequest
	}{
		{"tipo desconocido", dto.RecordMovementRequest{Type: "TRASLADO", ProductID: "med", QuantityChange: d(1)}},
		{"sin producto", dto.RecordMovementRequest{Type: entity.MovementTypePURCHASE, QuantityChange: d(1)}},
		{"cantidad cero", dto.RecordMovementRequest{Type: entity.MovementTypePURCHASE, ProductID: "med"}},
		{"venta positiva", dto.RecordMovementRequest{Type: entity.MovementTypeSALE, ProductID: "med", QuantityChange: d(5)}},
		{"correccion sin motivo", dto.RecordMovementRequest{Type: entity.MovementTypeCORRECTION, ProductID: "med", QuantityChange: d(-1)}},
		{"bandera de correccion sin motivo", dto.RecordMovementRequest{Type: entity.MovementTypePURCHASE, ProductID: "med", QuantityChange: d(1), UnitCost: &cost, IsCorrection: true}},
		{"costo negativo", dto.RecordMovementRequest{Type: entity.MovementTypePURCHASE, ProductID: "med", QuantityChange: d(1), UnitCost: &negCost}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.ledger.Record(context.Background(), testUserID, tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, env.store.movements, "ninguna validación fallida toca el libro")
}

func TestRecord_ProductoInexistente(t *testing.T) {
	env := newLedgerEnv()

	_, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypePURCHASE, ProductID: "fantasma", QuantityChange: d(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Record — efectos sobre lotes
// ──────────────────────────────────────────────────────────────────────────────

// Compra con vencimiento en producto por lotes: el lote se crea solo, con
// número autogenerado, y el costo promedio del producto se actualiza.
func TestRecord_CompraCreaLote(t *testing.T) {
	env := newLedgerEnv()
	cost := d(200)
	expiry := time.Now().AddDate(1, 0, 0)

	resp, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypePURCHASE, ProductID: "med",
		QuantityChange: d(10), UnitCost: &cost, ExpiryDate: &expiry,
	})
	require.NoError(t, err)

	assert.Equal(t, "LOTE-000001", resp.LotNumber)
	require.NotEmpty(t, resp.BatchID)
	batch := env.store.batches[resp.BatchID]
	require.NotNil(t, batch)
	assert.True(t, batch.Quantity.Equal(d(10)))
	assert.True(t, batch.UnitCost.Equal(d(200)))
	assert.True(t, batch.IsActive)

	// Sin stock previo el promedio es el costo de la entrada.
	assert.True(t, env.store.products["med"].UnitCost.Equal(d(200)))

	summary := env.store.summaries["med"]
	require.NotNil(t, summary, "la vista se recalcula en la misma transacción")
	assert.True(t, summary.TotalQuantity.Equal(d(10)))
}

// Salida sin lote explícito: consumo FIFO por vencimiento ascendente.
func TestRecord_SalidaFIFO(t *testing.T) {
	env := newLedgerEnv()
	now := time.Now()
	env.seedBatch("b1", now.AddDate(0, 1, 0), 10, 100)
	env.seedBatch("b2", now.AddDate(0, 8, 0), 5, 120)

	resp, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeSALE, ProductID: "med", QuantityChange: d(-12),
	})
	require.NoError(t, err)

	assert.True(t, env.store.batches["b1"].Quantity.IsZero())
	assert.False(t, env.store.batches["b1"].IsActive)
	assert.True(t, env.store.batches["b2"].Quantity.Equal(d(3)))
	// Con más de un lote consumido el movimiento no referencia ninguno.
	assert.Empty(t, resp.BatchID)
}

// Con asignación única el movimiento sí conserva la referencia al lote.
func TestRecord_SalidaFIFOUnSoloLote(t *testing.T) {
	env := newLedgerEnv()
	now := time.Now()
	env.seedBatch("b1", now.AddDate(0, 1, 0), 10, 100)
	env.seedBatch("b2", now.AddDate(0, 8, 0), 5, 120)

	resp, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeSALE, ProductID: "med", QuantityChange: d(-4),
	})
	require.NoError(t, err)

	assert.Equal(t, "b1", resp.BatchID)
	assert.Equal(t, "LOTE-b1", resp.LotNumber)
	require.NotNil(t, resp.ExpiryDate)
	assert.True(t, env.store.batches["b1"].Quantity.Equal(d(6)))
	assert.True(t, env.store.batches["b2"].Quantity.Equal(d(5)))
}

func TestRecord_SalidaFIFOSinStockRevierte(t *testing.T) {
	env := newLedgerEnv()
	now := time.Now()
	env.seedBatch("b1", now.AddDate(0, 1, 0), 10, 100)

	_, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeSALE, ProductID: "med", QuantityChange: d(-11),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, env.store.movements)
	assert.True(t, env.store.batches["b1"].Quantity.Equal(d(10)), "el lote queda intacto")
	assert.Zero(t, env.store.counters["movement_number"], "el contador también se revierte")
}

// Movimiento sobre lote explícito: el delta está acotado por 0 <= qty <= inicial.
func TestRecord_LoteExplicito(t *testing.T) {
	env := newLedgerEnv()
	now := time.Now()
	env.seedBatch("b1", now.AddDate(0, 6, 0), 10, 100)

	// Sacar más de lo que hay: insuficiente.
	_, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeSALE, ProductID: "med", QuantityChange: d(-20), BatchID: "b1",
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(d(10)))

	// Devolver por encima de la cantidad inicial: inválido.
	env.store.batches["b1"].Quantity = d(8)
	_, err = env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeRETURN, ProductID: "med", QuantityChange: d(5), BatchID: "b1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Devolución válida: el lote vuelve a su cantidad inicial.
	resp, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeRETURN, ProductID: "med", QuantityChange: d(2), BatchID: "b1",
	})
	require.NoError(t, err)
	assert.Equal(t, "LOTE-b1", resp.LotNumber)
	assert.True(t, env.store.batches["b1"].Quantity.Equal(d(10)))
}

func TestRecord_LoteDeOtroProducto(t *testing.T) {
	env := newLedgerEnv()
	env.seedBatch("b1", time.Now().AddDate(0, 6, 0), 10, 100)

	_, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeSALE, ProductID: "dev", QuantityChange: d(-1), BatchID: "b1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Record — serializados
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_SerializadoSinStock(t *testing.T) {
	env := newLedgerEnv()

	_, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeSALE, ProductID: "dev",
		QuantityChange: d(-1), SerialNumber: "SN-1",
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "dev", stockErr.ProductID)
	assert.Empty(t, env.store.movements)
}

func TestRecord_SerializadoConStock(t *testing.T) {
	env := newLedgerEnv()
	cost := d(300)
	env.store.movements = append(env.store.movements, &entity.StockMovement{
		ID: "m1", MovementNumber: 1, Type: entity.MovementTypeIMPORT,
		ProductID: "dev", QuantityChange: d(5), UnitCost: &cost,
		SerialNumber: "SN-BULK", CreatedAt: time.Now(),
	})
	env.store.counters["movement_number"] = 1

	resp, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypeSALE, ProductID: "dev",
		QuantityChange: d(-2), SerialNumber: "SN-77",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.MovementNumber)

	summary := env.store.summaries["dev"]
	require.NotNil(t, summary)
	assert.True(t, summary.TotalQuantity.Equal(d(3)))
	assert.True(t, summary.TotalTracked.Equal(d(3)), "todo el stock del producto es serializado")
}

// Entrada con costo: el costo promedio del producto se pondera con el stock previo.
func TestRecord_PromedioPonderado(t *testing.T) {
	env := newLedgerEnv()
	prevCost := d(300)
	env.store.movements = append(env.store.movements, &entity.StockMovement{
		ID: "m1", MovementNumber: 1, Type: entity.MovementTypeIMPORT,
		ProductID: "dev", QuantityChange: d(10), UnitCost: &prevCost,
		SerialNumber: "SN-BULK", CreatedAt: time.Now(),
	})
	env.store.counters["movement_number"] = 1

	newCost := d(600)
	_, err := env.ledger.Record(context.Background(), testUserID, dto.RecordMovementRequest{
		Type: entity.MovementTypePURCHASE, ProductID: "dev",
		QuantityChange: d(10), UnitCost: &newCost, SerialNumber: "SN-BULK-2",
	})
	require.NoError(t, err)

	// (10*300 + 10*600) / 20 = 450.
	assert.True(t, env.store.products["dev"].UnitCost.Equal(d(450)))
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltroYOrden(t *testing.T) {
	env := newLedgerEnv()
	now := time.Now()
	for i, productID := range []string{"med", "dev", "med"} {
		env.store.movements = append(env.store.movements, &entity.StockMovement{
			ID: string(rune('a' + i)), MovementNumber: int64(i + 1),
			Type: entity.MovementTypeIMPORT, ProductID: productID,
			QuantityChange: d(1), CreatedAt: now,
		})
	}

	resp, err := env.ledger.List(context.Background(), dto.ListMovementsRequest{ProductID: "med"})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 2)
	assert.Equal(t, 2, resp.Page.Total)
	assert.Greater(t, resp.Movements[0].MovementNumber, resp.Movements[1].MovementNumber,
		"descendente: lo más reciente primero")
}

func TestListMovements_FechaInvalida(t *testing.T) {
	env := newLedgerEnv()

	_, err := env.ledger.List(context.Background(), dto.ListMovementsRequest{From: "31/12/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.ledger.List(context.Background(), dto.ListMovementsRequest{To: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
