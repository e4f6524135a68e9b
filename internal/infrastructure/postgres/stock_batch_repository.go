package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

const batchColumns = `id, product_id, batch_number, expiry_date, quantity, initial_quantity,
	unit_cost, total_cost, is_active, created_at, updated_at`

// StockBatchRepo implementación del puerto de lotes sobre PostgreSQL.
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.BatchNumber, b.ExpiryDate,
		b.Quantity, b.InitialQuantity, b.UnitCost, b.TotalCost,
		b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockBatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByProduct retorna los lotes de un producto por vencimiento ascendente.
func (r *StockBatchRepo) ListByProduct(ctx context.Context, productID string, activeOnly bool) ([]*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE product_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY expiry_date ASC, created_at ASC`
	return r.queryBatches(ctx, query, productID)
}

// ListActiveForUpdate bloquea los lotes activos del producto para consumo FIFO.
// El SELECT FOR UPDATE serializa descuentos concurrentes sobre el mismo producto.
func (r *StockBatchRepo) ListActiveForUpdate(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches
		WHERE product_id = $1 AND is_active
		ORDER BY expiry_date ASC, created_at ASC
		FOR UPDATE`
	return r.queryBatches(ctx, query, productID)
}

// ListExpiring retorna lotes activos que vencen antes de la fecha dada, el más próximo primero.
func (r *StockBatchRepo) ListExpiring(ctx context.Context, before time.Time) ([]*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches
		WHERE is_active AND quantity > 0 AND expiry_date < $1
		ORDER BY expiry_date ASC`
	return r.queryBatches(ctx, query, before)
}

// Update persiste cantidad, costo total, estado activo y updated_at.
func (r *StockBatchRepo) Update(ctx context.Context, b *entity.StockBatch) error {
	query := `
		UPDATE stock_batches
		SET quantity = $2, total_cost = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, b.ID, b.Quantity, b.TotalCost, b.IsActive, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockBatchRepo) queryBatches(ctx context.Context, query string, args ...any) ([]*entity.StockBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	err := row.Scan(
		&b.ID, &b.ProductID, &b.BatchNumber, &b.ExpiryDate,
		&b.Quantity, &b.InitialQuantity, &b.UnitCost, &b.TotalCost,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
