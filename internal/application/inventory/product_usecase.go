package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ProductUseCase administra el catálogo mínimo que el libro necesita:
// sin producto no hay movimientos, lotes ni vista agregada.
type ProductUseCase struct {
	txRunner TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner TxRunner) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner}
}

// Create da de alta un producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.SalePrice.LessThan(decimal.Zero) || in.ReorderPoint.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.TrackingType != entity.TrackingSerialized && in.TrackingType != entity.TrackingBatch {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Barcode:      in.Barcode,
		TrackingType: in.TrackingType,
		SalePrice:    in.SalePrice,
		UnitCost:     decimal.Zero,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.Set) error {
		return r.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get retorna un producto por ID.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		product, err = r.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List retorna el catálogo paginado.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	var list []*entity.Product
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		list, err = r.Products.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Barcode:      p.Barcode,
		TrackingType: p.TrackingType,
		SalePrice:    p.SalePrice,
		UnitCost:     p.UnitCost,
		ReorderPoint: p.ReorderPoint,
		CreatedAt:    p.CreatedAt,
	}
}
