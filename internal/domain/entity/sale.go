package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos y estados de pago.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodCredit = "credit"

	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// Sale es una venta liquidada. Inmutable tras la liquidación, salvo el número
// de comprobante fiscal que un colaborador externo adjunta después.
type Sale struct {
	ID                  string
	SaleNumber          int64 // consecutivo por tenant
	SaleDate            time.Time
	Subtotal            decimal.Decimal
	Discount            decimal.Decimal
	Total               decimal.Decimal
	PaymentMethod       string
	PaymentStatus       string
	CustomerName        string
	CustomerTaxID       string
	Notes               string
	FiscalReceiptNumber *string // null hasta el backfill del colaborador fiscal
	CreatedBy           string
	CreatedAt           time.Time
}

// SaleItem es una línea de venta con su costo unitario para reporte de margen.
type SaleItem struct {
	ID            string
	SaleID        string
	ProductID     string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	UnitCost      decimal.Decimal
	DiscountRate  decimal.Decimal // porcentaje 0..100 por línea
	TotalPrice    decimal.Decimal
	SerialNumber  string
	LotNumber     string
	ExpiryDate    *time.Time
	StockDeducted bool
}

// IsValidPaymentMethod verifica el método de pago.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodCredit:
		return true
	}
	return false
}
