package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, movement_number, type, product_id, quantity_change, unit_cost, total_cost,
	serial_number, lot_number, expiry_date, batch_id, sale_id, is_correction, correction_reason,
	created_by, created_at`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: el libro es append-only por contrato.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MovementNumber, m.Type, m.ProductID, m.QuantityChange,
		m.UnitCost, m.TotalCost,
		nullIfEmpty(m.SerialNumber), nullIfEmpty(m.LotNumber), m.ExpiryDate,
		nullIfEmpty(m.BatchID), nullIfEmpty(m.SaleID),
		m.IsCorrection, nullIfEmpty(m.CorrectionReason),
		m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movement number collision: %w", err)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List retorna movimientos filtrados con su total para paginación.
// Cada filtro presente se agrega como predicado parametrizado.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	where := ""
	args := []any{}
	pos := 1
	addPredicate := func(clause string, value any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, pos)
		args = append(args, value)
		pos++
	}
	if filter.ProductID != "" {
		addPredicate("product_id = $%d", filter.ProductID)
	}
	if filter.Type != "" {
		addPredicate("type = $%d", filter.Type)
	}
	if filter.From != nil {
		addPredicate("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addPredicate("created_at <= $%d", *filter.To)
	}

	var total int
	countQuery := `SELECT count(*) FROM stock_movements` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, movement_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// Totals hace el rescan completo del libro para un producto en un solo
// agregado SQL. CostQuantity/CostValue acumulan solo entradas positivas con
// costo, para el promedio ponderado.
func (r *StockMovementRepo) Totals(ctx context.Context, productID string) (inventory.LedgerTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN serial_number IS NOT NULL THEN quantity_change ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN serial_number IS NULL THEN quantity_change ELSE 0 END), 0),
			COALESCE(SUM(quantity_change), 0),
			COALESCE(SUM(CASE WHEN quantity_change > 0 AND unit_cost IS NOT NULL THEN quantity_change ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity_change > 0 AND unit_cost IS NOT NULL THEN quantity_change * unit_cost ELSE 0 END), 0),
			MAX(created_at)
		FROM stock_movements WHERE product_id = $1`
	var t inventory.LedgerTotals
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&t.TrackedQuantity, &t.UntrackedQuantity, &t.TotalQuantity,
		&t.CostQuantity, &t.CostValue, &t.LastMovement,
	)
	if err != nil {
		return inventory.LedgerTotals{}, fmt.Errorf("ledger totals: %w", err)
	}
	return t, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var serial, lot, batchID, saleID, reason *string
	err := row.Scan(
		&m.ID, &m.MovementNumber, &m.Type, &m.ProductID, &m.QuantityChange,
		&m.UnitCost, &m.TotalCost,
		&serial, &lot, &m.ExpiryDate, &batchID, &saleID,
		&m.IsCorrection, &reason,
		&m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.SerialNumber = deref(serial)
	m.LotNumber = deref(lot)
	m.BatchID = deref(batchID)
	m.SaleID = deref(saleID)
	m.CorrectionReason = deref(reason)
	return &m, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
