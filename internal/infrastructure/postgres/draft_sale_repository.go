package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.DraftSaleRepository = (*DraftSaleRepo)(nil)

const draftColumns = `tab_id, tab_label, items, is_completed, completed_at, display_order,
	created_by, created_at, updated_at`

// DraftSaleRepo implementación de carritos en progreso sobre PostgreSQL.
// Las líneas del carrito van como documento jsonb: el carrito siempre se
// sincroniza completo, nunca línea a línea.
type DraftSaleRepo struct {
	q Querier
}

// NewDraftSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDraftSaleRepository(q Querier) *DraftSaleRepo {
	return &DraftSaleRepo{q: q}
}

// ListOpen retorna pestañas no completadas ordenadas por display_order.
func (r *DraftSaleRepo) ListOpen(ctx context.Context) ([]*entity.DraftSaleTab, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_sale_tabs
		WHERE NOT is_completed ORDER BY display_order ASC, created_at ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open tabs: %w", err)
	}
	defer rows.Close()
	var list []*entity.DraftSaleTab
	for rows.Next() {
		t, err := scanDraftTab(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tab: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetByID obtiene una pestaña por ID, completada o no.
func (r *DraftSaleRepo) GetByID(ctx context.Context, tabID string) (*entity.DraftSaleTab, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_sale_tabs WHERE tab_id = $1`
	t, err := scanDraftTab(r.q.QueryRow(ctx, query, tabID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tab: %w", err)
	}
	return t, nil
}

// Upsert reemplaza la pestaña completa. No toca is_completed ni created_at
// de una pestaña existente.
func (r *DraftSaleRepo) Upsert(ctx context.Context, t *entity.DraftSaleTab) error {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return fmt.Errorf("marshal tab items: %w", err)
	}
	query := `
		INSERT INTO draft_sale_tabs (tab_id, tab_label, items, is_completed, completed_at, display_order, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, false, NULL, $4, $5, $6, $7)
		ON CONFLICT (tab_id) DO UPDATE SET
			tab_label = EXCLUDED.tab_label,
			items = EXCLUDED.items,
			display_order = EXCLUDED.display_order,
			updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query,
		t.TabID, t.TabLabel, items, t.DisplayOrder, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert tab: %w", err)
	}
	return nil
}

// Delete borra la pestaña en duro.
func (r *DraftSaleRepo) Delete(ctx context.Context, tabID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM draft_sale_tabs WHERE tab_id = $1`, tabID)
	if err != nil {
		return fmt.Errorf("delete tab: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkCompleted marca la pestaña como liquidada; la fila se conserva para auditoría.
func (r *DraftSaleRepo) MarkCompleted(ctx context.Context, tabID string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE draft_sale_tabs SET is_completed = true, completed_at = $2, updated_at = $2 WHERE tab_id = $1`,
		tabID, at,
	)
	if err != nil {
		return fmt.Errorf("mark tab completed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDraftTab(row pgx.Row) (*entity.DraftSaleTab, error) {
	var t entity.DraftSaleTab
	var items []byte
	err := row.Scan(
		&t.TabID, &t.TabLabel, &items, &t.IsCompleted, &t.CompletedAt,
		&t.DisplayOrder, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &t.Items); err != nil {
			return nil, fmt.Errorf("unmarshal tab items: %w", err)
		}
	}
	return &t, nil
}
