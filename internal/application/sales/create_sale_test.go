package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-ventas/internal/application/credit"
	"github.com/tu-usuario/pos-ventas/internal/application/dto"
	"github.com/tu-usuario/pos-ventas/internal/application/inventory"
	"github.com/tu-usuario/pos-ventas/internal/application/sales"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/infrastructure/memory"
)

const (
	gaseosaID  = "00000000-0000-0000-0000-0000000000aa"
	fernetID   = "00000000-0000-0000-0000-0000000000ab"
	envioID    = "00000000-0000-0000-0000-0000000000ac"
	customerID = "00000000-0000-0000-0000-0000000000c1"
	actorID    = "00000000-0000-0000-0000-000000000001"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newFixture arma el store con dos productos con stock, un servicio sin
// control de inventario y un cliente con cuenta corriente en cero.
func newFixture(t *testing.T) (*memory.Store, *sales.CreateSaleUseCase) {
	t.Helper()
	store := memory.New()
	store.SeedProduct(entity.Product{
		ID: gaseosaID, Code: "GASEOSA-15", Description: "Gaseosa 1.5L",
		SellPrice: dec("10.00"), QuantityInStock: dec("10"), UsesInventory: true,
	})
	store.SeedProduct(entity.Product{
		ID: fernetID, Code: "FERNET-750", Description: "Fernet 750ml",
		SellPrice: dec("20.00"), QuantityInStock: dec("5"), UsesInventory: true,
	})
	store.SeedProduct(entity.Product{
		ID: envioID, Code: "ENVIO", Description: "Envío a domicilio",
		SellPrice: dec("3.00"), UsesInventory: false,
	})
	store.SeedCustomer(entity.Customer{
		ID: customerID, Name: "Juana Pérez",
		TaxCategory: entity.TaxCategoryConsumidorFinal,
		CreditLimit: dec("1000.00"),
	})

	runner := memory.NewTxRunner(store)
	movementUC := inventory.NewMovementUseCase(runner)
	ledgerUC := credit.NewLedgerUseCase(runner, store.Repos().CreditPayments)
	uc := sales.NewCreateSaleUseCase(runner, movementUC, ledgerUC, store.Repos().Sales)
	return store, uc
}

func TestCreateSale_TotalYMovimientosPorLinea(t *testing.T) {
	store, uc := newFixture(t)

	sale, err := uc.CreateSale(context.Background(), actorID, dto.CreateSaleRequest{
		PaymentType: entity.PaymentTypeCash,
		Items: []dto.SaleItemRequest{
			{ProductID: gaseosaID, Quantity: dec("2")},
			{ProductID: fernetID, Quantity: dec("1.5")},
		},
	})
	require.NoError(t, err)

	// 2 × 10.00 + 1.5 × 20.00 = 50.00
	assert.True(t, sale.Total.Equal(dec("50.00")),
		"total esperado 50.00, obtenido %s", sale.Total)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "GASEOSA-15", sale.Items[0].Code,
		"el ítem debe congelar código y descripción del catálogo")
	assert.True(t, sale.Items[0].UnitPrice.Equal(dec("10.00")))

	// Stock descontado por línea
	gaseosa, _ := store.Repos().Products.GetByID(gaseosaID)
	fernet, _ := store.Repos().Products.GetByID(fernetID)
	assert.True(t, gaseosa.QuantityInStock.Equal(dec("8")))
	assert.True(t, fernet.QuantityInStock.Equal(dec("3.5")))

	// Un movimiento SALE por línea, con cantidad negativa y la venta como origen
	movs := store.MovementsByRelated(sale.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementKindSale, movs[0].Kind)
	assert.True(t, movs[0].Quantity.Equal(dec("-2")))
	assert.True(t, movs[1].Quantity.Equal(dec("-1.5")))
}

func TestCreateSale_StockInsuficienteDeshaceTodo(t *testing.T) {
	store, uc := newFixture(t)

	// La primera línea alcanza, la segunda no: nada debe persistir
	sale, err := uc.CreateSale(context.Background(), actorID, dto.CreateSaleRequest{
		PaymentType: entity.PaymentTypeCash,
		Items: []dto.SaleItemRequest{
			{ProductID: gaseosaID, Quantity: dec("2")},
			{ProductID: fernetID, Quantity: dec("6")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, sale)

	gaseosa, _ := store.Repos().Products.GetByID(gaseosaID)
	assert.True(t, gaseosa.QuantityInStock.Equal(dec("10")),
		"la línea que sí alcanzaba también debe revertirse")

	ventas, err := store.Repos().Sales.List(nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, ventas, "la venta no debe quedar persistida")
}

func TestCreateSale_ServicioNoMueveStock(t *testing.T) {
	store, uc := newFixture(t)

	sale, err := uc.CreateSale(context.Background(), actorID, dto.CreateSaleRequest{
		PaymentType: entity.PaymentTypeCard,
		Items: []dto.SaleItemRequest{
			{ProductID: gaseosaID, Quantity: dec("1")},
			{ProductID: envioID, Quantity: dec("1")},
		},
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(dec("13.00")))

	movs := store.MovementsByRelated(sale.ID)
	require.Len(t, movs, 1, "el servicio no debe generar movimiento")
	assert.Equal(t, gaseosaID, movs[0].ProductID)
}

func TestCreateSale_CreditoDebitaSaldoYFuerzaMedioDePago(t *testing.T) {
	store, uc := newFixture(t)

	sale, err := uc.CreateSale(context.Background(), actorID, dto.CreateSaleRequest{
		IsCredit:    true,
		CustomerID:  customerID,
		PaymentType: entity.PaymentTypeCash, // se ignora en ventas a crédito
		Items: []dto.SaleItemRequest{
			{ProductID: fernetID, Quantity: dec("2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentTypeCredit, sale.PaymentType,
		"una venta a crédito siempre queda en CUENTA_CORRIENTE")
	assert.True(t, sale.IsCreditSale)

	// Contrato de signo: la venta a crédito RESTA del saldo
	customer, _ := store.Repos().Customers.GetByID(customerID)
	assert.True(t, customer.CreditBalance.Equal(dec("-40.00")),
		"saldo esperado -40.00, obtenido %s", customer.CreditBalance)
}

func TestCreateSale_CreditoConTotalCeroSeRechaza(t *testing.T) {
	store, uc := newFixture(t)
	muestraID := "00000000-0000-0000-0000-0000000000ad"
	store.SeedProduct(entity.Product{
		ID: muestraID, Code: "MUESTRA", Description: "Muestra sin cargo",
		SellPrice: dec("0.00"), QuantityInStock: dec("10"), UsesInventory: true,
	})

	_, err := uc.CreateSale(context.Background(), actorID, dto.CreateSaleRequest{
		IsCredit:   true,
		CustomerID: customerID,
		Items: []dto.SaleItemRequest{
			{ProductID: muestraID, Quantity: dec("2")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput,
		"una venta a cuenta sin importe no genera deuda que asentar")

	// Nada quedó persistido: ni venta, ni movimiento, ni saldo tocado
	list, err := store.Repos().Sales.List(nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	muestra, _ := store.Repos().Products.GetByID(muestraID)
	assert.True(t, muestra.QuantityInStock.Equal(dec("10")))
	customer, _ := store.Repos().Customers.GetByID(customerID)
	assert.True(t, customer.CreditBalance.IsZero())
}

func TestCreateSale_CreditoClienteInexistenteDeshaceTodo(t *testing.T) {
	store, uc := newFixture(t)

	_, err := uc.CreateSale(context.Background(), actorID, dto.CreateSaleRequest{
		IsCredit:   true,
		CustomerID: "no-existe",
		Items: []dto.SaleItemRequest{
			{ProductID: gaseosaID, Quantity: dec("1")},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	gaseosa, _ := store.Repos().Products.GetByID(gaseosaID)
	assert.True(t, gaseosa.QuantityInStock.Equal(dec("10")))
}

func TestCreateSale_Validaciones(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateSaleRequest
	}{
		{"sin ítems", dto.CreateSaleRequest{PaymentType: entity.PaymentTypeCash}},
		{"cantidad cero", dto.CreateSaleRequest{
			PaymentType: entity.PaymentTypeCash,
			Items:       []dto.SaleItemRequest{{ProductID: gaseosaID, Quantity: decimal.Zero}},
		}},
		{"cantidad negativa", dto.CreateSaleRequest{
			PaymentType: entity.PaymentTypeCash,
			Items:       []dto.SaleItemRequest{{ProductID: gaseosaID, Quantity: dec("-1")}},
		}},
		{"crédito sin cliente", dto.CreateSaleRequest{
			IsCredit: true,
			Items:    []dto.SaleItemRequest{{ProductID: gaseosaID, Quantity: dec("1")}},
		}},
		{"contado sin medio de pago", dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{{ProductID: gaseosaID, Quantity: dec("1")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateSale(ctx, actorID, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGetSale_DevuelveVentaCompleta(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	created, err := uc.CreateSale(ctx, actorID, dto.CreateSaleRequest{
		PaymentType: entity.PaymentTypeTransfer,
		Items: []dto.SaleItemRequest{
			{ProductID: gaseosaID, Quantity: dec("3")},
		},
	})
	require.NoError(t, err)

	got, err := uc.GetSale(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Total.Equal(dec("30.00")))

	_, err = uc.GetSale(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
