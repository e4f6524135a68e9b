package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompleteSaleItem una línea del request de liquidación.
type CompleteSaleItem struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price,omitempty"` // 0 = precio de catálogo
	DiscountRate decimal.Decimal `json:"discount_rate,omitempty"`
	SerialNumber string          `json:"serial_number,omitempty"` // productos serializados
}

// CompleteSaleRequest body para POST /api/sales/complete.
type CompleteSaleRequest struct {
	TabID         string             `json:"tab_id,omitempty"` // carrito que origina la venta
	Items         []CompleteSaleItem `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerTaxID string             `json:"customer_tax_id,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

// SaleReceiptResponse comprobante de liquidación. FiscalReceiptNumber queda en
// null hasta que el colaborador fiscal externo lo adjunte.
type SaleReceiptResponse struct {
	SaleID              string          `json:"sale_id"`
	SaleNumber          int64           `json:"sale_number"`
	SaleDate            time.Time       `json:"sale_date"`
	Total               decimal.Decimal `json:"total"`
	ItemCount           int             `json:"item_count"`
	StockDeducted       bool            `json:"stock_deducted"`
	FiscalReceiptNumber *string         `json:"fiscal_receipt_number"`
}

// SaleItemResponse una línea de venta en respuestas.
type SaleItemResponse struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	SerialNumber string          `json:"serial_number,omitempty"`
	LotNumber    string          `json:"lot_number,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
}

// SaleResponse una venta con sus líneas.
type SaleResponse struct {
	ID                  string             `json:"id"`
	SaleNumber          int64              `json:"sale_number"`
	SaleDate            time.Time          `json:"sale_date"`
	Subtotal            decimal.Decimal    `json:"subtotal"`
	Discount            decimal.Decimal    `json:"discount"`
	Total               decimal.Decimal    `json:"total"`
	PaymentMethod       string             `json:"payment_method"`
	PaymentStatus       string             `json:"payment_status"`
	CustomerName        string             `json:"customer_name,omitempty"`
	CustomerTaxID       string             `json:"customer_tax_id,omitempty"`
	Notes               string             `json:"notes,omitempty"`
	FiscalReceiptNumber *string            `json:"fiscal_receipt_number"`
	Items               []SaleItemResponse `json:"items,omitempty"`
}

// ListSalesRequest filtros de GET /api/sales.
type ListSalesRequest struct {
	PageRequest
	From string `query:"from"` // YYYY-MM-DD
	To   string `query:"to"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Page  PageResponse   `json:"page"`
}
