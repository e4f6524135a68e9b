package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo entrega consecutivos desde la tabla counters con un UPSERT
// atómico: el incremento ocurre en el motor, nunca read-then-increment en
// código de aplicación.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next retorna el siguiente valor del contador nombrado.
func (r *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`
	var value int64
	if err := r.q.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return value, nil
}
