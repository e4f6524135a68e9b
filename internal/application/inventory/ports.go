package inventory

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios atados al namespace del tenant
// resuelto desde el contexto. Run abre una transacción y hace Commit/Rollback;
// View ata los repositorios a la conexión sin transacción (solo lectura).
// Garantiza la atomicidad del núcleo de inventario y liquidación.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Set) error) error
	View(ctx context.Context, fn func(r repository.Set) error) error
}
