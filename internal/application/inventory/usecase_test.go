package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-ventas/internal/application/inventory"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/infrastructure/memory"
)

const (
	productID = "00000000-0000-0000-0000-0000000000aa"
	serviceID = "00000000-0000-0000-0000-0000000000bb"
	actorID   = "00000000-0000-0000-0000-000000000001"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newFixture devuelve el store y el caso de uso con un producto con stock 10
// y un servicio sin control de inventario.
func newFixture(t *testing.T) (*memory.Store, *inventory.MovementUseCase) {
	t.Helper()
	store := memory.New()
	store.SeedProduct(entity.Product{
		ID:              productID,
		Code:            "GASEOSA-15",
		Description:     "Gaseosa 1.5L",
		SellPrice:       dec("10.00"),
		CostPrice:       dec("6.00"),
		QuantityInStock: dec("10"),
		UsesInventory:   true,
	})
	store.SeedProduct(entity.Product{
		ID:            serviceID,
		Code:          "ENVIO",
		Description:   "Envío a domicilio",
		SellPrice:     dec("5.00"),
		UsesInventory: false,
	})
	return store, inventory.NewMovementUseCase(memory.NewTxRunner(store))
}

func TestApplyMovement_CompraSumaStockYActualizaCosto(t *testing.T) {
	store, uc := newFixture(t)
	cost := dec("6.50")

	product, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  dec("24"),
		Kind:      entity.MovementKindPurchase,
		UnitCost:  &cost,
		ActorID:   actorID,
	})
	require.NoError(t, err)

	assert.True(t, product.QuantityInStock.Equal(dec("34")),
		"stock esperado 34, obtenido %s", product.QuantityInStock)
	assert.True(t, product.CostPrice.Equal(cost),
		"la compra debe actualizar el costo del producto")

	movs, err := store.Repos().Movements.ListByProduct(productID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1, "debe quedar exactamente un movimiento")
	assert.Equal(t, entity.MovementKindPurchase, movs[0].Kind)
	assert.True(t, movs[0].Quantity.Equal(dec("24")))
	assert.True(t, movs[0].UnitCost.Equal(cost))
}

func TestApplyMovement_AjusteNegativoNoActualizaCosto(t *testing.T) {
	_, uc := newFixture(t)

	product, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  dec("-3"),
		Kind:      entity.MovementKindAdjustment,
		ActorID:   actorID,
	})
	require.NoError(t, err)

	assert.True(t, product.QuantityInStock.Equal(dec("7")))
	assert.True(t, product.CostPrice.Equal(dec("6.00")),
		"un ajuste no debe tocar el costo")
}

func TestApplyMovement_AjusteHastaCeroEsValido(t *testing.T) {
	_, uc := newFixture(t)

	product, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  dec("-10"),
		Kind:      entity.MovementKindAdjustment,
		ActorID:   actorID,
	})
	require.NoError(t, err)
	assert.True(t, product.QuantityInStock.IsZero())
}

func TestApplyMovement_StockInsuficienteNoPersisteNada(t *testing.T) {
	store, uc := newFixture(t)

	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  dec("-11"),
		Kind:      entity.MovementKindAdjustment,
		ActorID:   actorID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: ni stock ni movimiento
	product, err := store.Repos().Products.GetByID(productID)
	require.NoError(t, err)
	assert.True(t, product.QuantityInStock.Equal(dec("10")),
		"el stock no debe cambiar tras un movimiento rechazado")

	movs, err := store.Repos().Movements.ListByProduct(productID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "no debe quedar movimiento registrado")
}

func TestApplyMovement_ProductoSinControlDeInventario(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: serviceID,
		Quantity:  dec("1"),
		Kind:      entity.MovementKindAdjustment,
		ActorID:   actorID,
	})
	assert.ErrorIs(t, err, domain.ErrNoInventoryTracking)
}

func TestApplyMovement_ProductoInexistente(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: "no-existe",
		Quantity:  dec("1"),
		Kind:      entity.MovementKindInitial,
		ActorID:   actorID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_Validaciones(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()
	cost := dec("5.00")
	negCost := dec("-1.00")

	cases := []struct {
		name  string
		input inventory.MovementInput
	}{
		{"tipo desconocido", inventory.MovementInput{ProductID: productID, Quantity: dec("1"), Kind: "MERMA"}},
		{"cantidad cero", inventory.MovementInput{ProductID: productID, Quantity: decimal.Zero, Kind: entity.MovementKindAdjustment}},
		{"producto vacío", inventory.MovementInput{Quantity: dec("1"), Kind: entity.MovementKindAdjustment}},
		{"compra sin costo", inventory.MovementInput{ProductID: productID, Quantity: dec("1"), Kind: entity.MovementKindPurchase}},
		{"compra con costo negativo", inventory.MovementInput{ProductID: productID, Quantity: dec("1"), Kind: entity.MovementKindPurchase, UnitCost: &negCost}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ApplyMovement(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// Control: la compra válida sí pasa
	_, err := uc.ApplyMovement(ctx, inventory.MovementInput{
		ProductID: productID, Quantity: dec("1"),
		Kind: entity.MovementKindPurchase, UnitCost: &cost,
	})
	assert.NoError(t, err)
}

func TestListMovements_FiltraPorFecha(t *testing.T) {
	store, uc := newFixture(t)
	ctx := context.Background()

	for n := 0; n < 3; n++ {
		_, err := uc.ApplyMovement(ctx, inventory.MovementInput{
			ProductID: productID,
			Quantity:  dec("-1"),
			Kind:      entity.MovementKindAdjustment,
			ActorID:   actorID,
		})
		require.NoError(t, err)
	}

	productUC := inventory.NewProductUseCase(store.Repos().Products, store.Repos().Movements)

	all, err := productUC.ListMovements(ctx, productID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	future := time.Now().Add(time.Hour)
	none, err := productUC.ListMovements(ctx, productID, &future, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none, "un desde futuro no debe devolver movimientos")
}
