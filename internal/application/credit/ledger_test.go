package credit_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-ventas/internal/application/credit"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
	"github.com/tu-usuario/pos-ventas/internal/infrastructure/memory"
)

const (
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

func newFixture(t *testing.T, balance string) (*memory.Store, *credit.LedgerUseCase) {
	t.Helper()
	store := memory.New()
	store.SeedCustomer(entity.Customer{
		ID:            customerID,
		Name:          "Juana Pérez",
		TaxCategory:   entity.TaxCategoryConsumidorFinal,
		CreditLimit:   dec("1000.00"),
		CreditBalance: dec(balance),
	})
	runner := memory.NewTxRunner(store)
	return store, credit.NewLedgerUseCase(runner, store.Repos().CreditPayments)
}

func balanceOf(t *testing.T, store *memory.Store) decimal.Decimal {
	t.Helper()
	c, err := store.Repos().Customers.GetByID(customerID)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.CreditBalance
}

// Contrato de signo del saldo: la deuda RESTA, el pago SUMA. Cambiarlo rompe
// todos los saldos históricos, por eso queda fijado acá.
func TestContratoDeSigno_DeudaRestaPagoSuma(t *testing.T) {
	store, uc := newFixture(t, "0")
	runner := memory.NewTxRunner(store)

	err := runner.Run(context.Background(), func(r *repository.Repos) error {
		return uc.IncreaseDebtInTx(r, customerID, dec("100.00"))
	})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, store).Equal(dec("-100.00")),
		"una deuda de 100 debe dejar el saldo en -100")

	_, err = uc.ApplyPayment(context.Background(), customerID, actorID, dec("40.00"), "")
	require.NoError(t, err)
	assert.True(t, balanceOf(t, store).Equal(dec("-60.00")),
		"un pago de 40 sobre -100 debe dejar el saldo en -60")
}

func TestIncreaseDebt_MontoNoPositivo(t *testing.T) {
	store, uc := newFixture(t, "0")
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	for _, amount := range []string{"0", "-5.00"} {
		err := runner.Run(ctx, func(r *repository.Repos) error {
			return uc.IncreaseDebtInTx(r, customerID, dec(amount))
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto %s", amount)
	}
	assert.True(t, balanceOf(t, store).IsZero())
}

func TestApplyPayment_RegistraPagoInmutable(t *testing.T) {
	store, uc := newFixture(t, "-150.00")

	payment, err := uc.ApplyPayment(context.Background(), customerID, actorID, dec("150.00"), "pago total")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, customerID, payment.CustomerID)
	assert.Equal(t, actorID, payment.CreatedBy)
	assert.True(t, payment.Amount.Equal(dec("150.00")))

	assert.True(t, balanceOf(t, store).IsZero(), "el pago debe saldar la cuenta")

	list, err := uc.ListPayments(context.Background(), customerID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, payment.ID, list[0].ID)
	assert.Equal(t, "pago total", list[0].Notes)
}

func TestApplyPayment_Validaciones(t *testing.T) {
	_, uc := newFixture(t, "0")
	ctx := context.Background()

	_, err := uc.ApplyPayment(ctx, customerID, actorID, decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ApplyPayment(ctx, customerID, actorID, dec("-10.00"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ApplyPayment(ctx, "no-existe", actorID, dec("10.00"), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCustomer_SaldoPendienteBloqueaLaBaja(t *testing.T) {
	store, uc := newFixture(t, "-150.00")

	err := uc.DeleteCustomer(context.Background(), customerID)
	require.ErrorIs(t, err, domain.ErrOutstandingBalance)

	c, err := store.Repos().Customers.GetByID(customerID)
	require.NoError(t, err)
	assert.NotNil(t, c, "el cliente con deuda debe seguir existiendo")
}

func TestDeleteCustomer_SaldoAFavorTambienBloquea(t *testing.T) {
	_, uc := newFixture(t, "75.00")

	err := uc.DeleteCustomer(context.Background(), customerID)
	assert.ErrorIs(t, err, domain.ErrOutstandingBalance,
		"un saldo a favor del cliente también es saldo pendiente")
}

func TestDeleteCustomer_CuentaSaldadaEliminada(t *testing.T) {
	store, uc := newFixture(t, "0")

	err := uc.DeleteCustomer(context.Background(), customerID)
	require.NoError(t, err)

	c, err := store.Repos().Customers.GetByID(customerID)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDeleteCustomer_ResiduoDentroDeEpsilon(t *testing.T) {
	// Medio centavo de residuo por redondeo no debe bloquear la baja
	_, uc := newFixture(t, "0.004")

	err := uc.DeleteCustomer(context.Background(), customerID)
	assert.NoError(t, err)
}
