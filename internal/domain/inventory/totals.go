package inventory

import "github.com/shopspring/decimal"

// LineTotal totales de una línea de venta con descuento porcentual propio.
// No existe descuento a nivel de carrito: todo descuento es por línea.
type LineTotal struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeLineTotal calcula subtotal, descuento y total de una línea.
// discountRate es porcentaje 0..100.
func ComputeLineTotal(quantity, unitPrice, discountRate decimal.Decimal) LineTotal {
	subtotal := quantity.Mul(unitPrice)
	discount := subtotal.Mul(discountRate).Div(hundred)
	return LineTotal{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}

// ComputeSaleTotals agrega los totales de todas las líneas.
func ComputeSaleTotals(lines []LineTotal) (subtotal, discount, total decimal.Decimal) {
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
		discount = discount.Add(l.Discount)
		total = total.Add(l.Total)
	}
	return subtotal, discount, total
}
