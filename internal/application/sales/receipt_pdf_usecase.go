package sales

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ReceiptPDFUseCase genera el PDF del comprobante de una venta liquidada.
type ReceiptPDFUseCase struct {
	txRunner  inventory.TxRunner
	generator ReceiptPDFGenerator
}

// NewReceiptPDFUseCase construye el caso de uso.
func NewReceiptPDFUseCase(txRunner inventory.TxRunner, generator ReceiptPDFGenerator) *ReceiptPDFUseCase {
	return &ReceiptPDFUseCase{txRunner: txRunner, generator: generator}
}

// GetReceiptPDF retorna los bytes del PDF (GET /api/sales/:saleId/receipt.pdf).
func (uc *ReceiptPDFUseCase) GetReceiptPDF(ctx context.Context, saleID string) ([]byte, error) {
	var sale *entity.Sale
	var items []*entity.SaleItem
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		sale, err = r.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		items, err = r.Sales.ItemsBySale(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateReceiptPDF(ctx, sale, items)
}
