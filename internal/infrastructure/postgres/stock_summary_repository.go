package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockSummaryRepository = (*StockSummaryRepo)(nil)

const summaryColumns = `product_id, total_tracked, total_untracked, total_quantity, total_value,
	average_cost, last_movement_date, has_low_stock, has_expiring_soon, has_expired,
	needs_attention, updated_at`

// StockSummaryRepo implementación de la vista agregada sobre PostgreSQL.
// Es una caché derivada: el agregador la reemplaza fila a fila (last-writer-wins).
type StockSummaryRepo struct {
	q Querier
}

// NewStockSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockSummaryRepository(q Querier) *StockSummaryRepo {
	return &StockSummaryRepo{q: q}
}

// Upsert inserta o reemplaza la fila del producto.
func (r *StockSummaryRepo) Upsert(ctx context.Context, s *entity.StockSummary) error {
	query := `
		INSERT INTO stock_summaries (` + summaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (product_id) DO UPDATE SET
			total_tracked = EXCLUDED.total_tracked,
			total_untracked = EXCLUDED.total_untracked,
			total_quantity = EXCLUDED.total_quantity,
			total_value = EXCLUDED.total_value,
			average_cost = EXCLUDED.average_cost,
			last_movement_date = EXCLUDED.last_movement_date,
			has_low_stock = EXCLUDED.has_low_stock,
			has_expiring_soon = EXCLUDED.has_expiring_soon,
			has_expired = EXCLUDED.has_expired,
			needs_attention = EXCLUDED.needs_attention,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.ProductID, s.TotalTracked, s.TotalUntracked, s.TotalQuantity, s.TotalValue,
		s.AverageCost, s.LastMovementDate, s.HasLowStock, s.HasExpiringSoon, s.HasExpired,
		s.NeedsAttention, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

// Get obtiene la vista agregada de un producto.
func (r *StockSummaryRepo) Get(ctx context.Context, productID string) (*entity.StockSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM stock_summaries WHERE product_id = $1`
	s, err := scanSummary(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return s, nil
}

// List lista la vista agregada con paginación.
func (r *StockSummaryRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM stock_summaries
		ORDER BY product_id LIMIT $1 OFFSET $2`
	return r.querySummaries(ctx, query, limit, offset)
}

// ListNeedingAttention retorna productos con alertas: vencido > stock bajo > por vencer.
func (r *StockSummaryRepo) ListNeedingAttention(ctx context.Context) ([]*entity.StockSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM stock_summaries
		WHERE needs_attention
		ORDER BY has_expired DESC, has_low_stock DESC, has_expiring_soon DESC, product_id`
	return r.querySummaries(ctx, query)
}

func (r *StockSummaryRepo) querySummaries(ctx context.Context, query string, args ...any) ([]*entity.StockSummary, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSummary(row pgx.Row) (*entity.StockSummary, error) {
	var s entity.StockSummary
	err := row.Scan(
		&s.ProductID, &s.TotalTracked, &s.TotalUntracked, &s.TotalQuantity, &s.TotalValue,
		&s.AverageCost, &s.LastMovementDate, &s.HasLowStock, &s.HasExpiringSoon, &s.HasExpired,
		&s.NeedsAttention, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
