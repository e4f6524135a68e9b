package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// LedgerUseCase registra entradas del libro de movimientos de forma transaccional.
// El libro es la única fuente de verdad: cada alta consume un consecutivo del
// contador atómico, aplica el efecto sobre lotes y recalcula la vista agregada
// antes de confirmar. No existe actualización ni borrado.
type LedgerUseCase struct {
	txRunner TxRunner
	summary  *SummaryUseCase
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, summary *SummaryUseCase) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, summary: summary}
}

// Record valida y persiste un movimiento manual (POST /api/stock/movements).
func (uc *LedgerUseCase) Record(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	if !entity.IsValidMovementType(in.Type) || in.ProductID == "" || in.QuantityChange.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.Type == entity.MovementTypeSALE && in.QuantityChange.GreaterThan(decimal.Zero) {
		// Convención de signos: positivo entra, negativo sale.
		return nil, domain.ErrInvalidInput
	}
	isCorrection := in.IsCorrection || in.Type == entity.MovementTypeCORRECTION
	if isCorrection && in.CorrectionReason == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var created *entity.StockMovement

	err := uc.txRunner.Run(ctx, func(r repository.Set) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		// Totales previos al alta: alimentan el costo promedio y la
		// verificación de disponibilidad para salidas sin lote.
		totals, err := r.Movements.Totals(ctx, in.ProductID)
		if err != nil {
			return err
		}

		number, err := r.Sequences.Next(ctx, repository.SeqMovement)
		if err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:               uuid.New().String(),
			MovementNumber:   number,
			Type:             in.Type,
			ProductID:        in.ProductID,
			QuantityChange:   in.QuantityChange,
			UnitCost:         in.UnitCost,
			SerialNumber:     in.SerialNumber,
			LotNumber:        in.LotNumber,
			ExpiryDate:       in.ExpiryDate,
			BatchID:          in.BatchID,
			IsCorrection:     isCorrection,
			CorrectionReason: in.CorrectionReason,
			CreatedBy:        userID,
			CreatedAt:        now,
		}
		if in.UnitCost != nil {
			total := in.QuantityChange.Mul(*in.UnitCost)
			mov.TotalCost = &total
		}

		if err := uc.applyBatchEffect(ctx, r, product, mov, now); err != nil {
			return err
		}

		// Salida de producto serializado: verificar disponibilidad global.
		if mov.QuantityChange.LessThan(decimal.Zero) && product.TrackingType == entity.TrackingSerialized {
			requested := mov.QuantityChange.Neg()
			if totals.TotalQuantity.LessThan(requested) {
				return &domain.InsufficientStockError{
					ProductID: product.ID,
					Requested: requested,
					Available: totals.TotalQuantity,
				}
			}
		}

		// Entrada con costo: actualizar el costo promedio ponderado del producto.
		if mov.QuantityChange.GreaterThan(decimal.Zero) && in.UnitCost != nil {
			newCost := domaininv.CostCalculator(totals.TotalQuantity, product.UnitCost, mov.QuantityChange, *in.UnitCost)
			if err := r.Products.UpdateUnitCost(ctx, product.ID, newCost); err != nil {
				return err
			}
		}

		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		if _, err := uc.summary.RecomputeInTx(ctx, r, product.ID, now); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(created), nil
}

// applyBatchEffect aplica el efecto del movimiento sobre los lotes:
//   - movimiento sobre un lote explícito: delta acotado por 0 <= qty <= inicial;
//   - entrada (PURCHASE/IMPORT) con vencimiento en producto por lotes: crea el lote;
//   - salida sin lote explícito en producto por lotes: consumo FIFO.
func (uc *LedgerUseCase) applyBatchEffect(ctx context.Context, r repository.Set, product *entity.Product, mov *entity.StockMovement, now time.Time) error {
	if mov.BatchID != "" {
		batch, err := r.Batches.GetByID(ctx, mov.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if batch.ProductID != product.ID {
			return domain.ErrInvalidInput
		}
		newQty := batch.Quantity.Add(mov.QuantityChange)
		if newQty.LessThan(decimal.Zero) {
			return &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: mov.QuantityChange.Neg(),
				Available: batch.Quantity,
			}
		}
		if newQty.GreaterThan(batch.InitialQuantity) {
			return domain.ErrInvalidInput
		}
		batch.Quantity = newQty
		batch.TotalCost = newQty.Mul(batch.UnitCost)
		batch.IsActive = newQty.GreaterThan(decimal.Zero)
		batch.UpdatedAt = now
		mov.LotNumber = batch.BatchNumber
		expiry := batch.ExpiryDate
		mov.ExpiryDate = &expiry
		return r.Batches.Update(ctx, batch)
	}

	if product.TrackingType != entity.TrackingBatch {
		return nil
	}

	entrada := mov.QuantityChange.GreaterThan(decimal.Zero) &&
		(mov.Type == entity.MovementTypePURCHASE || mov.Type == entity.MovementTypeIMPORT)
	if entrada && mov.ExpiryDate != nil {
		unitCost := decimal.Zero
		if mov.UnitCost != nil {
			unitCost = *mov.UnitCost
		}
		batchNumber := mov.LotNumber
		if batchNumber == "" {
			n, err := r.Sequences.Next(ctx, repository.SeqBatch)
			if err != nil {
				return err
			}
			batchNumber = formatBatchNumber(n)
		}
		batch := &entity.StockBatch{
			ID:              uuid.New().String(),
			ProductID:       product.ID,
			BatchNumber:     batchNumber,
			ExpiryDate:      *mov.ExpiryDate,
			Quantity:        mov.QuantityChange,
			InitialQuantity: mov.QuantityChange,
			UnitCost:        unitCost,
			TotalCost:       mov.QuantityChange.Mul(unitCost),
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.Batches.Create(ctx, batch); err != nil {
			return err
		}
		mov.BatchID = batch.ID
		mov.LotNumber = batch.BatchNumber
		return nil
	}

	if mov.QuantityChange.LessThan(decimal.Zero) {
		batches, err := r.Batches.ListActiveForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		plan, err := domaininv.PlanFIFO(product.ID, batches, mov.QuantityChange.Neg())
		if err != nil {
			return err
		}
		for _, alloc := range plan {
			domaininv.ApplyAllocation(alloc, now)
			if err := r.Batches.Update(ctx, alloc.Batch); err != nil {
				return err
			}
		}
		// Con asignación única el movimiento conserva la referencia al lote.
		if len(plan) == 1 {
			mov.BatchID = plan[0].Batch.ID
			mov.LotNumber = plan[0].Batch.BatchNumber
			expiry := plan[0].Batch.ExpiryDate
			mov.ExpiryDate = &expiry
		}
	}
	return nil
}

// List retorna el libro paginado, descendente por fecha (GET /api/stock/movements).
func (uc *LedgerUseCase) List(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	filter := repository.MovementFilter{
		ProductID: in.ProductID,
		Type:      in.Type,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	var err error
	if filter.From, err = parseDate(in.From, false); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if filter.To, err = parseDate(in.To, true); err != nil {
		return nil, domain.ErrInvalidInput
	}

	var list []*entity.StockMovement
	var total int
	err = uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		list, total, err = r.Movements.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.MovementListResponse{
		Movements: make([]dto.MovementResponse, 0, len(list)),
		Page:      dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, m := range list {
		resp.Movements = append(resp.Movements, *toMovementResponse(m))
	}
	return resp, nil
}

// parseDate interpreta YYYY-MM-DD; endOfDay corre el límite al final del día.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
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

// formatBatchNumber genera el número de lote autogenerado ("LOTE-000123").
func formatBatchNumber(n int64) string {
	return fmt.Sprintf("LOTE-%06d", n)
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:               m.ID,
		MovementNumber:   m.MovementNumber,
		Type:             m.Type,
		ProductID:        m.ProductID,
		QuantityChange:   m.QuantityChange,
		UnitCost:         m.UnitCost,
		TotalCost:        m.TotalCost,
		SerialNumber:     m.SerialNumber,
		LotNumber:        m.LotNumber,
		ExpiryDate:       m.ExpiryDate,
		BatchID:          m.BatchID,
		SaleID:           m.SaleID,
		IsCorrection:     m.IsCorrection,
		CorrectionReason: m.CorrectionReason,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}
