package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/stock/movements.
type RecordMovementRequest struct {
	Type             string           `json:"type"`
	ProductID        string           `json:"product_id"`
	QuantityChange   decimal.Decimal  `json:"quantity_change"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	SerialNumber     string           `json:"serial_number,omitempty"`
	LotNumber        string           `json:"lot_number,omitempty"`
	ExpiryDate       *time.Time       `json:"expiry_date,omitempty"`
	BatchID          string           `json:"batch_id,omitempty"`
	IsCorrection     bool             `json:"is_correction,omitempty"`
	CorrectionReason string           `json:"correction_reason,omitempty"`
}

// MovementResponse una entrada del libro en respuestas.
type MovementResponse struct {
	ID               string           `json:"id"`
	MovementNumber   int64            `json:"movement_number"`
	Type             string           `json:"type"`
	ProductID        string           `json:"product_id"`
	QuantityChange   decimal.Decimal  `json:"quantity_change"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost        *decimal.Decimal `json:"total_cost,omitempty"`
	SerialNumber     string           `json:"serial_number,omitempty"`
	LotNumber        string           `json:"lot_number,omitempty"`
	ExpiryDate       *time.Time       `json:"expiry_date,omitempty"`
	BatchID          string           `json:"batch_id,omitempty"`
	SaleID           string           `json:"sale_id,omitempty"`
	IsCorrection     bool             `json:"is_correction"`
	CorrectionReason string           `json:"correction_reason,omitempty"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ListMovementsRequest filtros de GET /api/stock/movements.
type ListMovementsRequest struct {
	PageRequest
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
	From      string `query:"from"` // YYYY-MM-DD
	To        string `query:"to"`
}

// MovementListResponse listado paginado del libro.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}

// CreateBatchRequest body para POST /api/stock/batches.
type CreateBatchRequest struct {
	ProductID   string          `json:"product_id"`
	BatchNumber string          `json:"batch_number,omitempty"` // autogenerado si falta
	ExpiryDate  time.Time       `json:"expiry_date"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// AdjustBatchQuantityRequest body para PUT /api/stock/batches/:id/quantity.
type AdjustBatchQuantityRequest struct {
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
}

// BatchResponse un lote en respuestas.
type BatchResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	Quantity        decimal.Decimal `json:"quantity"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SummaryResponse la vista agregada de un producto.
type SummaryResponse struct {
	ProductID        string          `json:"product_id"`
	TotalTracked     decimal.Decimal `json:"total_tracked"`
	TotalUntracked   decimal.Decimal `json:"total_untracked"`
	TotalQuantity    decimal.Decimal `json:"total_quantity"`
	TotalValue       decimal.Decimal `json:"total_value"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	LastMovementDate *time.Time      `json:"last_movement_date,omitempty"`
	HasLowStock      bool            `json:"has_low_stock"`
	HasExpiringSoon  bool            `json:"has_expiring_soon"`
	HasExpired       bool            `json:"has_expired"`
	NeedsAttention   bool            `json:"needs_attention"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode"`
	TrackingType string          `json:"tracking_type"` // serialized | batch
	SalePrice    decimal.Decimal `json:"sale_price"`
	ReorderPoint decimal.Decimal `json:"reorder_point,omitempty"`
}

// ProductResponse un producto en respuestas.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode"`
	TrackingType string          `json:"tracking_type"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	CreatedAt    time.Time       `json:"created_at"`
}
