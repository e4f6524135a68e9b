package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Disciplinas de seguimiento de stock.
const (
	TrackingSerialized = "serialized" // unidades con número de serie
	TrackingBatch      = "batch"      // lotes a granel con fecha de vencimiento
)

// Product representa un producto del catálogo de la farmacia.
// UnitCost es costo promedio ponderado calculado desde movimientos de entrada.
type Product struct {
	ID           string
	Name         string
	Barcode      string // código de barras único por tenant
	TrackingType string // serialized | batch
	SalePrice    decimal.Decimal
	UnitCost     decimal.Decimal
	ReorderPoint decimal.Decimal // umbral de stock bajo; 0 = usar el umbral global
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
