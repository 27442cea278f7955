package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// MovementUseCase aplica deltas de stock con su registro de movimiento, de
// forma transaccional y con bloqueo de fila (SELECT FOR UPDATE).
type MovementUseCase struct {
	txRunner TxRunner
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para aplicar un movimiento de inventario.
// Quantity lleva signo: positivo entrada, negativo salida.
// UnitCost es obligatorio en PURCHASE y actualiza el costo del producto.
type MovementInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Kind      string
	RelatedID string
	UnitCost  *decimal.Decimal
	ActorID   string
}

func validKind(kind string) bool {
	switch kind {
	case entity.MovementKindPurchase, entity.MovementKindSale,
		entity.MovementKindAdjustment, entity.MovementKindInitial:
		return true
	}
	return false
}

// ApplyMovement valida la entrada y aplica el movimiento en una transacción
// propia. Devuelve el producto con el stock resultante.
func (uc *MovementUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.Product, error) {
	if input.ProductID == "" || !validKind(input.Kind) || input.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if input.Kind == entity.MovementKindPurchase && (input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero)) {
		return nil, domain.ErrInvalidInput
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(r *repository.Repos) error {
		var err error
		product, err = uc.ApplyInTx(r, input, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ApplyInTx aplica el movimiento usando los repos del caller (misma
// transacción). Si devuelve error el caller debe dejar que el TxRunner haga
// rollback: nunca queda un movimiento sin su escritura de stock ni viceversa.
func (uc *MovementUseCase) ApplyInTx(r *repository.Repos, input MovementInput, now time.Time) (*entity.Product, error) {
	// Bloquea la fila del producto para serializar escrituras concurrentes
	product, err := r.Products.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.UsesInventory {
		return nil, domain.ErrNoInventoryTracking
	}

	newStock := product.QuantityInStock.Add(input.Quantity)
	if newStock.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}

	unitCost := product.CostPrice
	var costPrice *decimal.Decimal
	if input.UnitCost != nil {
		unitCost = *input.UnitCost
		if input.Kind == entity.MovementKindPurchase {
			costPrice = input.UnitCost
		}
	}
	if err := r.Products.UpdateStock(input.ProductID, newStock, costPrice); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Kind:      input.Kind,
		Quantity:  input.Quantity,
		UnitCost:  unitCost,
		RelatedID: input.RelatedID,
		Date:      now,
		CreatedAt: now,
		CreatedBy: input.ActorID,
	}
	if err := r.Movements.Create(mov); err != nil {
		return nil, err
	}

	product.QuantityInStock = newStock
	if costPrice != nil {
		product.CostPrice = *costPrice
	}
	return product, nil
}
