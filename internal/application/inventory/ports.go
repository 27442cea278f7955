package inventory

import (
	"context"

	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el bundle de repos atado a
// ella. Commit si fn devuelve nil; Rollback y propagación del error si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *repository.Repos) error) error
}
