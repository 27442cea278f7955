package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-ventas/internal/application/billing"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
	"github.com/tu-usuario/pos-ventas/internal/infrastructure/memory"
)

const actorID = "00000000-0000-0000-0000-000000000001"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store  *memory.Store
	uc     *billing.CreateInvoiceUseCase
	nextID int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	uc := billing.NewCreateInvoiceUseCase(
		memory.NewTxRunner(store),
		store.Repos().Invoices,
		store.Repos().Sales,
		billing.FiscalConfig{PointOfSale: "0003", StandardRate: dec("0.21")},
	)
	return &fixture{store: store, uc: uc}
}

// seedSale crea un cliente con la categoría indicada y una venta cerrada por
// el total dado. Devuelve el ID de la venta.
func (f *fixture) seedSale(t *testing.T, taxCategory, total string) string {
	t.Helper()
	f.nextID++
	customerID := ""
	if taxCategory != "" {
		customerID = uuidLike("c", f.nextID)
		f.store.SeedCustomer(entity.Customer{
			ID:          customerID,
			Name:        "Cliente de Prueba",
			TaxID:       "20-12345678-9",
			TaxCategory: taxCategory,
			Address:     "Av. Siempreviva 742",
		})
	}
	sale := &entity.Sale{
		ID:          uuidLike("s", f.nextID),
		Date:        time.Now(),
		CustomerID:  customerID,
		PaymentType: entity.PaymentTypeCash,
		Total:       dec(total),
		CreatedBy:   actorID,
	}
	require.NoError(t, f.store.Repos().Sales.Create(sale))
	return sale.ID
}

func uuidLike(prefix string, n int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%s%011d", prefix, n)
}

func TestCreateInvoice_TipoA_DiscriminaIVA(t *testing.T) {
	f := newFixture(t)
	saleID := f.seedSale(t, entity.TaxCategoryResponsableInscripto, "121.00")

	invoice, err := f.uc.CreateInvoiceFromSale(context.Background(), saleID)
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceTypeA, invoice.Type)
	assert.True(t, invoice.TaxRate.Equal(dec("0.21")))
	// El precio incluye IVA: neto = 121 / 1.21 = 100, IVA = 21
	assert.True(t, invoice.Subtotal.Equal(dec("100.00")),
		"neto esperado 100.00, obtenido %s", invoice.Subtotal)
	assert.True(t, invoice.TaxTotal.Equal(dec("21.00")))
	assert.True(t, invoice.GrandTotal.Equal(dec("121.00")))
	assert.Equal(t, "0003-00000001", invoice.Number)
	assert.Equal(t, int64(1), invoice.Sequence)
}

func TestCreateInvoice_NetoMasIVAIgualTotal(t *testing.T) {
	// Totales que no dividen exacto: la suma debe cerrar igual
	f := newFixture(t)
	for i, total := range []string{"99.99", "0.01", "123.45"} {
		saleID := f.seedSale(t, entity.TaxCategoryResponsableInscripto, total)
		invoice, err := f.uc.CreateInvoiceFromSale(context.Background(), saleID)
		require.NoError(t, err, "caso %d", i)
		assert.True(t, invoice.Subtotal.Add(invoice.TaxTotal).Equal(invoice.GrandTotal),
			"neto %s + IVA %s debe dar el total %s",
			invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal)
	}
}

func TestCreateInvoice_TipoB_SinDesglose(t *testing.T) {
	f := newFixture(t)
	for _, category := range []string{
		entity.TaxCategoryConsumidorFinal,
		entity.TaxCategoryMonotributo,
		entity.TaxCategoryExento,
	} {
		t.Run(category, func(t *testing.T) {
			saleID := f.seedSale(t, category, "121.00")
			invoice, err := f.uc.CreateInvoiceFromSale(context.Background(), saleID)
			require.NoError(t, err)

			assert.Equal(t, entity.InvoiceTypeB, invoice.Type)
			assert.True(t, invoice.TaxRate.IsZero())
			assert.True(t, invoice.Subtotal.Equal(dec("121.00")),
				"en tipo B el IVA queda embebido en el total")
			assert.True(t, invoice.TaxTotal.IsZero())
		})
	}
}

func TestCreateInvoice_NumeracionConsecutiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		saleID := f.seedSale(t, entity.TaxCategoryConsumidorFinal, "10.00")
		invoice, err := f.uc.CreateInvoiceFromSale(ctx, saleID)
		require.NoError(t, err)
		assert.Equal(t, want, invoice.Sequence,
			"las secuencias deben ser consecutivas sin huecos")
	}
}

func TestCreateInvoice_VentaSinClienteNoFactura(t *testing.T) {
	f := newFixture(t)
	saleID := f.seedSale(t, "", "50.00") // venta de mostrador

	_, err := f.uc.CreateInvoiceFromSale(context.Background(), saleID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_VentaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateInvoiceFromSale(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.CreateInvoiceFromSale(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_ALoSumoUnaPorVenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saleID := f.seedSale(t, entity.TaxCategoryConsumidorFinal, "30.00")

	first, err := f.uc.CreateInvoiceFromSale(ctx, saleID)
	require.NoError(t, err)

	_, err = f.uc.CreateInvoiceFromSale(ctx, saleID)
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)

	// La factura original sigue siendo la única y GetBySaleID la devuelve
	got, err := f.uc.GetInvoiceBySaleID(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestCreateInvoice_EmisoresConcurrentes(t *testing.T) {
	f := newFixture(t)
	saleID := f.seedSale(t, entity.TaxCategoryConsumidorFinal, "30.00")

	const emitters = 5
	errs := make([]error, emitters)
	var wg sync.WaitGroup
	for i := 0; i < emitters; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.uc.CreateInvoiceFromSale(context.Background(), saleID)
		}()
	}
	wg.Wait()

	var ok, already int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyInvoiced):
			already++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente un emisor debe ganar")
	assert.Equal(t, emitters-1, already, "el resto debe recibir ErrAlreadyInvoiced")
}

func TestCreateInvoice_SnapshotDelClienteEsInmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saleID := f.seedSale(t, entity.TaxCategoryResponsableInscripto, "121.00")

	invoice, err := f.uc.CreateInvoiceFromSale(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, "Cliente de Prueba", invoice.CustomerName)

	// Editar el cliente después de facturar no debe tocar la factura
	customer, err := f.store.Repos().Customers.GetByID(invoice.CustomerID)
	require.NoError(t, err)
	customer.Name = "Nombre Nuevo SRL"
	require.NoError(t, f.store.Repos().Customers.Update(customer))

	got, err := f.uc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cliente de Prueba", got.CustomerName,
		"el snapshot de facturación no sigue los cambios del cliente")
}

func TestRegisterFiscalAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saleID := f.seedSale(t, entity.TaxCategoryConsumidorFinal, "30.00")

	invoice, err := f.uc.CreateInvoiceFromSale(ctx, saleID)
	require.NoError(t, err)
	assert.Empty(t, invoice.CAE)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	updated, err := f.uc.RegisterFiscalAuthorization(ctx, invoice.ID, "71234567890123", due)
	require.NoError(t, err)
	assert.Equal(t, "71234567890123", updated.CAE)
	require.NotNil(t, updated.CAEDueDate)
	assert.True(t, updated.CAEDueDate.Equal(due))

	// Persistido, no solo en la copia devuelta
	got, err := f.uc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "71234567890123", got.CAE)

	_, err = f.uc.RegisterFiscalAuthorization(ctx, invoice.ID, "", due)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RegisterFiscalAuthorization(ctx, "no-existe", "123", due)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traducción del conflicto de unicidad del almacén
// ──────────────────────────────────────────────────────────────────────────────

// racingInvoiceRepo simula a un escritor concurrente que gana la carrera entre
// el chequeo previo y el INSERT: GetBySaleID devuelve nil hasta que Create
// falla con ErrDuplicate, después devuelve la factura ganadora.
type racingInvoiceRepo struct {
	repository.InvoiceRepository
	winner   *entity.Invoice
	conflict bool
}

func (r *racingInvoiceRepo) GetBySaleID(saleID string) (*entity.Invoice, error) {
	if r.conflict {
		return r.winner, nil
	}
	return nil, nil
}

func (r *racingInvoiceRepo) Create(invoice *entity.Invoice) error {
	r.conflict = true
	return domain.ErrDuplicate
}

// passthroughRunner ejecuta el callback con un bundle fijo, sin transacción.
type passthroughRunner struct {
	repos *repository.Repos
}

func (p *passthroughRunner) Run(_ context.Context, fn func(r *repository.Repos) error) error {
	return fn(p.repos)
}

func TestCreateInvoice_ConflictoDeUnicidadSeTraduce(t *testing.T) {
	store := memory.New()
	f := &fixture{store: store}
	saleID := f.seedSale(t, entity.TaxCategoryConsumidorFinal, "30.00")

	racing := &racingInvoiceRepo{
		InvoiceRepository: store.Repos().Invoices,
		winner:            &entity.Invoice{ID: "ganadora", SaleID: saleID},
	}
	repos := store.Repos()
	repos.Invoices = racing

	uc := billing.NewCreateInvoiceUseCase(
		&passthroughRunner{repos: repos},
		racing,
		store.Repos().Sales,
		billing.FiscalConfig{},
	)

	_, err := uc.CreateInvoiceFromSale(context.Background(), saleID)
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced,
		"el ErrDuplicate del almacén debe salir como ErrAlreadyInvoiced")
}
