package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para el catálogo de productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// UpdateUnitCost actualiza el costo promedio ponderado tras una entrada.
	UpdateUnitCost(ctx context.Context, id string, cost decimal.Decimal) error
}
