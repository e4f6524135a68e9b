package repository

import "context"

// Nombres de contadores consecutivos por tenant.
const (
	SeqMovement = "movement_number"
	SeqSale     = "sale_number"
	SeqBatch    = "batch_number"
)

// SequenceRepository entrega consecutivos desde un contador atómico del motor
// de almacenamiento. Nunca read-then-increment en código de aplicación: bajo
// concurrencia eso duplica números.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
