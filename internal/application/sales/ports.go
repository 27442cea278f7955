package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/application/inventory"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el bundle de repos atado a
// ella. Commit si fn devuelve nil; Rollback y propagación del error si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *repository.Repos) error) error
}

// InventoryEngine descuenta stock usando los repos del caller (misma
// transacción). Si devuelve error (ej: ErrInsufficientStock) el caller debe
// dejar que el TxRunner haga rollback de toda la venta.
type InventoryEngine interface {
	ApplyInTx(r *repository.Repos, input inventory.MovementInput, now time.Time) (*entity.Product, error)
}

// CreditEngine carga una venta a crédito al saldo del cliente usando los repos
// del caller (misma transacción).
type CreditEngine interface {
	IncreaseDebtInTx(r *repository.Repos, customerID string, amount decimal.Decimal) error
}
