package sales

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ReceiptPDFGenerator genera la representación gráfica del comprobante de venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) ([]byte, error)
}
