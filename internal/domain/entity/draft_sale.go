package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftSaleItem es una línea de un carrito en progreso. El carrito se sincroniza
// completo (full-replace), no línea a línea.
type DraftSaleItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"` // porcentaje 0..100
}

// DraftSaleTab es el carrito de un cajero (una pestaña del punto de venta).
// Se borra en duro cuando el cliente deja de reportarla abierta; al liquidarse
// se marca completada (soft) y se conserva para auditoría.
type DraftSaleTab struct {
	TabID        string
	TabLabel     string
	Items        []DraftSaleItem
	IsCompleted  bool
	CompletedAt  *time.Time
	DisplayOrder int
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
