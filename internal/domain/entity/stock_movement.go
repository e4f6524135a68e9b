package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypePURCHASE   = "PURCHASE"   // compra a proveedor
	MovementTypeSALE       = "SALE"       // venta (siempre negativo)
	MovementTypeCORRECTION = "CORRECTION" // corrección con motivo obligatorio
	MovementTypeIMPORT     = "IMPORT"     // carga inicial / importación masiva
	MovementTypeRETURN     = "RETURN"     // devolución de cliente
)

// StockMovement es una entrada inmutable del libro de movimientos.
// Nunca se actualiza ni se borra: un error se corrige insertando un movimiento
// compensatorio con IsCorrection=true y motivo.
type StockMovement struct {
	ID               string
	MovementNumber   int64 // consecutivo por tenant, generado por contador atómico
	Type             string
	ProductID        string
	QuantityChange   decimal.Decimal // positivo entrada, negativo salida
	UnitCost         *decimal.Decimal
	TotalCost        *decimal.Decimal
	SerialNumber     string
	LotNumber        string
	ExpiryDate       *time.Time
	BatchID          string
	SaleID           string // referencia a la venta que originó el movimiento
	IsCorrection     bool
	CorrectionReason string
	CreatedBy        string
	CreatedAt        time.Time
}

// IsValidMovementType verifica que el tipo pertenezca al catálogo del libro.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypePURCHASE, MovementTypeSALE, MovementTypeCORRECTION,
		MovementTypeIMPORT, MovementTypeRETURN:
		return true
	}
	return false
}
