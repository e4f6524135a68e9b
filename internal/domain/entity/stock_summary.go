package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary es la vista agregada (caché derivada) de la posición de stock
// de un producto. Totalmente recomputable desde el libro de movimientos y los
// lotes; solo el agregador escribe sobre ella.
type StockSummary struct {
	ProductID        string
	TotalTracked     decimal.Decimal // unidades con número de serie
	TotalUntracked   decimal.Decimal // unidades a granel (lotes)
	TotalQuantity    decimal.Decimal
	TotalValue       decimal.Decimal
	AverageCost      decimal.Decimal
	LastMovementDate *time.Time
	HasLowStock      bool
	HasExpiringSoon  bool
	HasExpired       bool
	NeedsAttention   bool
	UpdatedAt        time.Time
}
