package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// BatchUseCase administra lotes: alta (con movimiento PURCHASE en el libro),
// ajuste manual de cantidad (con CORRECTION compensatoria) y consultas.
type BatchUseCase struct {
	txRunner     TxRunner
	summary      *SummaryUseCase
	expiringDays int // ventana por defecto del endpoint expiring-soon
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(txRunner TxRunner, summary *SummaryUseCase, expiringDays int) *BatchUseCase {
	return &BatchUseCase{txRunner: txRunner, summary: summary, expiringDays: expiringDays}
}

// Create da de alta un lote (POST /api/stock/batches): autogenera batchNumber
// si falta, registra el movimiento PURCHASE y recalcula la vista, todo en una
// transacción.
func (uc *BatchUseCase) Create(ctx context.Context, userID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) ||
		in.UnitCost.LessThan(decimal.Zero) || in.ExpiryDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var created *entity.StockBatch

	err := uc.txRunner.Run(ctx, func(r repository.Set) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.TrackingType != entity.TrackingBatch {
			return domain.ErrInvalidInput
		}

		totals, err := r.Movements.Totals(ctx, in.ProductID)
		if err != nil {
			return err
		}

		batchNumber := in.BatchNumber
		if batchNumber == "" {
			n, err := r.Sequences.Next(ctx, repository.SeqBatch)
			if err != nil {
				return err
			}
			batchNumber = formatBatchNumber(n)
		}

		batch := &entity.StockBatch{
			ID:              uuid.New().String(),
			ProductID:       in.ProductID,
			BatchNumber:     batchNumber,
			ExpiryDate:      in.ExpiryDate,
			Quantity:        in.Quantity,
			InitialQuantity: in.Quantity,
			UnitCost:        in.UnitCost,
			TotalCost:       in.Quantity.Mul(in.UnitCost),
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.Batches.Create(ctx, batch); err != nil {
			return err
		}

		number, err := r.Sequences.Next(ctx, repository.SeqMovement)
		if err != nil {
			return err
		}
		unitCost := in.UnitCost
		totalCost := batch.TotalCost
		expiry := in.ExpiryDate
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			MovementNumber: number,
			Type:           entity.MovementTypePURCHASE,
			ProductID:      in.ProductID,
			QuantityChange: in.Quantity,
			UnitCost:       &unitCost,
			TotalCost:      &totalCost,
			LotNumber:      batchNumber,
			ExpiryDate:     &expiry,
			BatchID:        batch.ID,
			CreatedBy:      userID,
			CreatedAt:      now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}

		newCost := domaininv.CostCalculator(totals.TotalQuantity, product.UnitCost, in.Quantity, in.UnitCost)
		if err := r.Products.UpdateUnitCost(ctx, product.ID, newCost); err != nil {
			return err
		}

		if _, err := uc.summary.RecomputeInTx(ctx, r, in.ProductID, now); err != nil {
			return err
		}
		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponse(created), nil
}

// AdjustQuantity fija la cantidad de un lote (PUT /api/stock/batches/:id/quantity).
// El delta entra al libro como CORRECTION con motivo obligatorio; totalCost e
// isActive se recalculan. Cantidad acotada por 0 <= nueva <= inicial.
func (uc *BatchUseCase) AdjustQuantity(ctx context.Context, userID, batchID string, in dto.AdjustBatchQuantityRequest) (*dto.BatchResponse, error) {
	if batchID == "" || in.NewQuantity.LessThan(decimal.Zero) || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var adjusted *entity.StockBatch

	err := uc.txRunner.Run(ctx, func(r repository.Set) error {
		batch, err := r.Batches.GetByID(ctx, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if in.NewQuantity.GreaterThan(batch.InitialQuantity) {
			return domain.ErrInvalidInput
		}

		delta := in.NewQuantity.Sub(batch.Quantity)
		if delta.IsZero() {
			adjusted = batch
			return nil
		}

		number, err := r.Sequences.Next(ctx, repository.SeqMovement)
		if err != nil {
			return err
		}
		unitCost := batch.UnitCost
		totalCost := delta.Mul(unitCost)
		expiry := batch.ExpiryDate
		mov := &entity.StockMovement{
			ID:               uuid.New().String(),
			MovementNumber:   number,
			Type:             entity.MovementTypeCORRECTION,
			ProductID:        batch.ProductID,
			QuantityChange:   delta,
			UnitCost:         &unitCost,
			TotalCost:        &totalCost,
			LotNumber:        batch.BatchNumber,
			ExpiryDate:       &expiry,
			BatchID:          batch.ID,
			IsCorrection:     true,
			CorrectionReason: in.Reason,
			CreatedBy:        userID,
			CreatedAt:        now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}

		batch.Quantity = in.NewQuantity
		batch.TotalCost = in.NewQuantity.Mul(batch.UnitCost)
		batch.IsActive = in.NewQuantity.GreaterThan(decimal.Zero)
		batch.UpdatedAt = now
		if err := r.Batches.Update(ctx, batch); err != nil {
			return err
		}

		if _, err := uc.summary.RecomputeInTx(ctx, r, batch.ProductID, now); err != nil {
			return err
		}
		adjusted = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponse(adjusted), nil
}

// ListByProduct retorna los lotes de un producto ordenados por vencimiento
// ascendente (GET /api/stock/batches/product/:productId).
func (uc *BatchUseCase) ListByProduct(ctx context.Context, productID string, activeOnly bool) ([]dto.BatchResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	var list []*entity.StockBatch
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		product, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		list, err = r.Batches.ListByProduct(ctx, productID, activeOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponses(list), nil
}

// ListExpiring retorna lotes activos que vencen dentro de la ventana, el más
// próximo primero (GET /api/stock/batches/expiring-soon). daysAhead <= 0 usa
// el default de configuración.
func (uc *BatchUseCase) ListExpiring(ctx context.Context, daysAhead int) ([]dto.BatchResponse, error) {
	if daysAhead <= 0 {
		daysAhead = uc.expiringDays
	}
	before := time.Now().AddDate(0, 0, daysAhead)
	var list []*entity.StockBatch
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		list, err = r.Batches.ListExpiring(ctx, before)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponses(list), nil
}

func toBatchResponses(list []*entity.StockBatch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBatchResponse(b))
	}
	return out
}

func toBatchResponse(b *entity.StockBatch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		ExpiryDate:      b.ExpiryDate,
		Quantity:        b.Quantity,
		InitialQuantity: b.InitialQuantity,
		UnitCost:        b.UnitCost,
		TotalCost:       b.TotalCost,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
	}
}
