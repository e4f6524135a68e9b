package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// SettlementUseCase orquesta la liquidación: la transición atómica de carrito
// en progreso a venta cerrada. Dentro de UNA transacción se insertan la venta
// y sus líneas, se descuenta stock vía movimientos SALE negativos (FIFO por
// lote), se recalcula la vista agregada de cada producto tocado y se marca
// completada la pestaña de origen. Cualquier falla revierte todo: no quedan
// ventas parciales, descuentos parciales ni pestañas huérfanas.
type SettlementUseCase struct {
	txRunner inventory.TxRunner
	summary  *inventory.SummaryUseCase
}

// NewSettlementUseCase construye el coordinador.
func NewSettlementUseCase(txRunner inventory.TxRunner, summary *inventory.SummaryUseCase) *SettlementUseCase {
	return &SettlementUseCase{txRunner: txRunner, summary: summary}
}

// CompleteSale liquida una venta (POST /api/sales/complete).
// Precondiciones: al menos una línea, método de pago presente, cada línea con
// producto y cantidad > 0. Los totales salen de los descuentos porcentuales
// por línea; no existe descuento a nivel de carrito.
func (uc *SettlementUseCase) CompleteSale(ctx context.Context, userID string, in dto.CompleteSaleRequest) (*dto.SaleReceiptResponse, error) {
	if len(in.Items) == 0 || !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) ||
			item.DiscountRate.LessThan(decimal.Zero) ||
			item.DiscountRate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	var receipt *dto.SaleReceiptResponse

	err := uc.txRunner.Run(ctx, func(r repository.Set) error {
		// La pestaña de origen debe existir y no estar ya liquidada.
		if in.TabID != "" {
			tab, err := r.Drafts.GetByID(ctx, in.TabID)
			if err != nil {
				return err
			}
			if tab == nil {
				return domain.ErrNotFound
			}
			if tab.IsCompleted {
				return domain.ErrConflict
			}
		}

		products := make(map[string]*entity.Product, len(in.Items))
		for _, item := range in.Items {
			if _, ok := products[item.ProductID]; ok {
				continue
			}
			product, err := r.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			products[item.ProductID] = product
		}

		// Totales por línea: precio de catálogo si la línea no trae precio.
		lines := make([]domaininv.LineTotal, 0, len(in.Items))
		prices := make([]decimal.Decimal, len(in.Items))
		for i, item := range in.Items {
			price := item.UnitPrice
			if price.IsZero() {
				price = products[item.ProductID].SalePrice
			}
			prices[i] = price
			lines = append(lines, domaininv.ComputeLineTotal(item.Quantity, price, item.DiscountRate))
		}
		subtotal, discount, total := domaininv.ComputeSaleTotals(lines)

		saleNumber, err := r.Sequences.Next(ctx, repository.SeqSale)
		if err != nil {
			return err
		}
		paymentStatus := entity.PaymentStatusPaid
		if in.PaymentMethod == entity.PaymentMethodCredit {
			paymentStatus = entity.PaymentStatusPending
		}
		sale := &entity.Sale{
			ID:            uuid.New().String(),
			SaleNumber:    saleNumber,
			SaleDate:      now,
			Subtotal:      subtotal,
			Discount:      discount,
			Total:         total,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: paymentStatus,
			CustomerName:  in.CustomerName,
			CustomerTaxID: in.CustomerTaxID,
			Notes:         in.Notes,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// Varias líneas de la misma venta pueden tocar el mismo producto:
		// los lotes se cargan UNA vez por producto, bajo FOR UPDATE, y el
		// plan FIFO de cada línea trabaja sobre esa única vista consistente.
		batchCache := make(map[string][]*entity.StockBatch)
		touched := make(map[string]bool)

		for i, item := range in.Items {
			product := products[item.ProductID]
			touched[product.ID] = true

			saleItem := &entity.SaleItem{
				ID:            uuid.New().String(),
				SaleID:        sale.ID,
				ProductID:     product.ID,
				Quantity:      item.Quantity,
				UnitPrice:     prices[i],
				DiscountRate:  item.DiscountRate,
				TotalPrice:    lines[i].Total,
				SerialNumber:  item.SerialNumber,
				StockDeducted: true,
			}

			switch product.TrackingType {
			case entity.TrackingBatch:
				if err := uc.deductFIFO(ctx, r, sale, product, item.Quantity, saleItem, batchCache, now); err != nil {
					return err
				}
			default:
				if err := uc.deductSerialized(ctx, r, sale, product, item, now); err != nil {
					return err
				}
				saleItem.UnitCost = product.UnitCost
			}

			if err := r.Sales.CreateItem(ctx, saleItem); err != nil {
				return err
			}
		}

		// Recalcular la vista de cada producto tocado ANTES de confirmar.
		for productID := range touched {
			if _, err := uc.summary.RecomputeInTx(ctx, r, productID, now); err != nil {
				return err
			}
		}

		// La pestaña se marca completada (soft) y se conserva para auditoría.
		if in.TabID != "" {
			if err := r.Drafts.MarkCompleted(ctx, in.TabID, now); err != nil {
				return err
			}
		}

		receipt = &dto.SaleReceiptResponse{
			SaleID:              sale.ID,
			SaleNumber:          sale.SaleNumber,
			SaleDate:            sale.SaleDate,
			Total:               sale.Total,
			ItemCount:           len(in.Items),
			StockDeducted:       true,
			FiscalReceiptNumber: nil, // lo adjunta después el colaborador fiscal
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// deductFIFO consume lotes por vencimiento ascendente y registra un movimiento
// SALE negativo por cada asignación, con el costo del lote para margen.
func (uc *SettlementUseCase) deductFIFO(
	ctx context.Context,
	r repository.Set,
	sale *entity.Sale,
	product *entity.Product,
	quantity decimal.Decimal,
	saleItem *entity.SaleItem,
	batchCache map[string][]*entity.StockBatch,
	now time.Time,
) error {
	batches, ok := batchCache[product.ID]
	if !ok {
		var err error
		batches, err = r.Batches.ListActiveForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		batchCache[product.ID] = batches
	}

	plan, err := domaininv.PlanFIFO(product.ID, batches, quantity)
	if err != nil {
		return err
	}

	costValue := decimal.Zero
	for _, alloc := range plan {
		batch := alloc.Batch
		unitCost := batch.UnitCost
		costValue = costValue.Add(alloc.Quantity.Mul(unitCost))

		domaininv.ApplyAllocation(alloc, now)
		if err := r.Batches.Update(ctx, batch); err != nil {
			return err
		}

		number, err := r.Sequences.Next(ctx, repository.SeqMovement)
		if err != nil {
			return err
		}
		qty := alloc.Quantity.Neg()
		totalCost := qty.Mul(unitCost)
		expiry := batch.ExpiryDate
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			MovementNumber: number,
			Type:           entity.MovementTypeSALE,
			ProductID:      product.ID,
			QuantityChange: qty,
			UnitCost:       &unitCost,
			TotalCost:      &totalCost,
			LotNumber:      batch.BatchNumber,
			ExpiryDate:     &expiry,
			BatchID:        batch.ID,
			SaleID:         sale.ID,
			CreatedBy:      sale.CreatedBy,
			CreatedAt:      now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
	}

	// Costo unitario ponderado de la línea y referencia al primer lote consumido.
	if len(plan) > 0 {
		saleItem.UnitCost = costValue.Div(quantity)
		saleItem.LotNumber = plan[0].Batch.BatchNumber
		expiry := plan[0].Batch.ExpiryDate
		saleItem.ExpiryDate = &expiry
	}
	return nil
}

// deductSerialized registra la salida de un producto serializado verificando
// la disponibilidad global contra el libro (visible dentro de la misma tx).
func (uc *SettlementUseCase) deductSerialized(
	ctx context.Context,
	r repository.Set,
	sale *entity.Sale,
	product *entity.Product,
	item dto.CompleteSaleItem,
	now time.Time,
) error {
	totals, err := r.Movements.Totals(ctx, product.ID)
	if err != nil {
		return err
	}
	if totals.TotalQuantity.LessThan(item.Quantity) {
		return &domain.InsufficientStockError{
			ProductID: product.ID,
			Requested: item.Quantity,
			Available: totals.TotalQuantity,
		}
	}

	number, err := r.Sequences.Next(ctx, repository.SeqMovement)
	if err != nil {
		return err
	}
	unitCost := product.UnitCost
	qty := item.Quantity.Neg()
	totalCost := qty.Mul(unitCost)
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		MovementNumber: number,
		Type:           entity.MovementTypeSALE,
		ProductID:      product.ID,
		QuantityChange: qty,
		UnitCost:       &unitCost,
		TotalCost:      &totalCost,
		SerialNumber:   item.SerialNumber,
		SaleID:         sale.ID,
		CreatedBy:      sale.CreatedBy,
		CreatedAt:      now,
	}
	return r.Movements.Create(ctx, mov)
}

// GetSale retorna una venta con sus líneas (GET /api/sales/:saleId).
func (uc *SettlementUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
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
	return toSaleResponse(sale, items), nil
}

// ListSales retorna ventas paginadas con filtros de fecha (GET /api/sales).
func (uc *SettlementUseCase) ListSales(ctx context.Context, in dto.ListSalesRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	filter := repository.SaleFilter{Limit: in.Limit, Offset: in.Offset}
	var err error
	if filter.From, err = parseDay(in.From, false); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if filter.To, err = parseDay(in.To, true); err != nil {
		return nil, domain.ErrInvalidInput
	}

	var list []*entity.Sale
	var total int
	err = uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		list, total, err = r.Sales.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.SaleListResponse{
		Sales: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, s := range list {
		resp.Sales = append(resp.Sales, *toSaleResponse(s, nil))
	}
	return resp, nil
}

func parseDay(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                  s.ID,
		SaleNumber:          s.SaleNumber,
		SaleDate:            s.SaleDate,
		Subtotal:            s.Subtotal,
		Discount:            s.Discount,
		Total:               s.Total,
		PaymentMethod:       s.PaymentMethod,
		PaymentStatus:       s.PaymentStatus,
		CustomerName:        s.CustomerName,
		CustomerTaxID:       s.CustomerTaxID,
		Notes:               s.Notes,
		FiscalReceiptNumber: s.FiscalReceiptNumber,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			UnitCost:     it.UnitCost,
			DiscountRate: it.DiscountRate,
			TotalPrice:   it.TotalPrice,
			SerialNumber: it.SerialNumber,
			LotNumber:    it.LotNumber,
			ExpiryDate:   it.ExpiryDate,
		})
	}
	return resp
}
