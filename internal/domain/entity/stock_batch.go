package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch representa un lote de un producto: cantidad restante, vencimiento y costo.
// Invariante: 0 <= Quantity <= InitialQuantity; IsActive pasa a false exactamente
// cuando Quantity llega a 0.
type StockBatch struct {
	ID              string
	ProductID       string
	BatchNumber     string
	ExpiryDate      time.Time
	Quantity        decimal.Decimal
	InitialQuantity decimal.Decimal
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsExpired indica si el lote ya venció respecto a now.
func (b *StockBatch) IsExpired(now time.Time) bool {
	return b.ExpiryDate.Before(now)
}

// ExpiresWithin indica si el lote vence dentro de la ventana dada.
func (b *StockBatch) ExpiresWithin(now time.Time, window time.Duration) bool {
	return !b.IsExpired(now) && !b.ExpiryDate.After(now.Add(window))
}
