package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, sale_number, sale_date, subtotal, discount, total, payment_method,
	payment_status, customer_name, customer_tax_id, notes, fiscal_receipt_number,
	created_by, created_at`

// SaleRepo implementación del puerto de ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.SaleNumber, s.SaleDate, s.Subtotal, s.Discount, s.Total,
		s.PaymentMethod, s.PaymentStatus,
		nullIfEmpty(s.CustomerName), nullIfEmpty(s.CustomerTaxID), nullIfEmpty(s.Notes),
		s.FiscalReceiptNumber, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, unit_cost, discount_rate, total_price, serial_number, lot_number, expiry_date, stock_deducted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.UnitCost,
		it.DiscountRate, it.TotalPrice,
		nullIfEmpty(it.SerialNumber), nullIfEmpty(it.LotNumber), it.ExpiryDate,
		it.StockDeducted,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ItemsBySale retorna las líneas de una venta.
func (r *SaleRepo) ItemsBySale(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, unit_cost, discount_rate, total_price, serial_number, lot_number, expiry_date, stock_deducted
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var serial, lot *string
		if err := rows.Scan(
			&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.UnitCost,
			&it.DiscountRate, &it.TotalPrice, &serial, &lot, &it.ExpiryDate, &it.StockDeducted,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.SerialNumber = deref(serial)
		it.LotNumber = deref(lot)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List retorna ventas filtradas por fecha con su total para paginación.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	where := ""
	args := []any{}
	pos := 1
	if filter.From != nil {
		where = fmt.Sprintf(" WHERE sale_date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("sale_date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `SELECT ` + saleColumns + ` FROM sales` + where +
		fmt.Sprintf(" ORDER BY sale_date DESC, sale_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customer, taxID, notes *string
	err := row.Scan(
		&s.ID, &s.SaleNumber, &s.SaleDate, &s.Subtotal, &s.Discount, &s.Total,
		&s.PaymentMethod, &s.PaymentStatus,
		&customer, &taxID, &notes, &s.FiscalReceiptNumber,
		&s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CustomerName = deref(customer)
	s.CustomerTaxID = deref(taxID)
	s.Notes = deref(notes)
	return &s, nil
}
