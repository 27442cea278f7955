package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// FiscalConfig parámetros de emisión: prefijo del punto de venta y tasa de IVA
// estándar (21% por defecto).
type FiscalConfig struct {
	PointOfSale  string
	StandardRate decimal.Decimal
}

// CreateInvoiceUseCase emite una factura a partir de una venta ya cerrada:
// a lo sumo una factura por venta, numeración consecutiva por punto de venta y
// desglose de IVA despejado del total (los precios de venta lo incluyen).
type CreateInvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository // lecturas fuera de transacción
	saleRepo    repository.SaleRepository
	fiscal      FiscalConfig
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(txRunner TxRunner, invoiceRepo repository.InvoiceRepository, saleRepo repository.SaleRepository, fiscal FiscalConfig) *CreateInvoiceUseCase {
	if fiscal.PointOfSale == "" {
		fiscal.PointOfSale = "0001"
	}
	if fiscal.StandardRate.IsZero() {
		fiscal.StandardRate = decimal.New(21, -2)
	}
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		fiscal:      fiscal,
	}
}

// invoiceTypeFor devuelve el tipo de factura según la categoría fiscal:
// responsable inscripto recibe "A"; cualquier otra (incluida la vacía), "B".
func invoiceTypeFor(taxCategory string) string {
	if taxCategory == entity.TaxCategoryResponsableInscripto {
		return entity.InvoiceTypeA
	}
	return entity.InvoiceTypeB
}

// taxRateFor devuelve la tasa explícita a discriminar. Tipo "B" y clientes
// exentos van con tasa cero (el IVA queda embebido en el precio); el resto,
// la tasa estándar.
func (uc *CreateInvoiceUseCase) taxRateFor(invoiceType, taxCategory string) decimal.Decimal {
	if invoiceType == entity.InvoiceTypeA && taxCategory == entity.TaxCategoryResponsableInscripto {
		return uc.fiscal.StandardRate
	}
	if invoiceType == entity.InvoiceTypeB || taxCategory == entity.TaxCategoryExento {
		return decimal.Zero
	}
	return uc.fiscal.StandardRate
}

// splitTax despeja el neto del total con IVA incluido: neto = total/(1+tasa),
// IVA = total − neto, ambos a 2 decimales. Con tasa cero no hay nada que abrir.
func splitTax(total, rate decimal.Decimal) (subtotal, tax decimal.Decimal) {
	if rate.IsZero() {
		return total, decimal.Zero
	}
	subtotal = total.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	tax = total.Sub(subtotal)
	return subtotal, tax
}

// CreateInvoiceFromSale emite la factura de una venta. La unicidad por venta
// la garantiza el constraint UNIQUE(sale_id) del almacén: si un escritor
// concurrente ganó la carrera, el conflicto se traduce a ErrAlreadyInvoiced en
// lugar de filtrar el error crudo de la base.
func (uc *CreateInvoiceUseCase) CreateInvoiceFromSale(ctx context.Context, saleID string) (*entity.Invoice, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}

	var invoice *entity.Invoice
	err := uc.txRunner.Run(ctx, func(r *repository.Repos) error {
		sale, err := r.Sales.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		existing, err := r.Invoices.GetBySaleID(saleID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyInvoiced
		}
		if sale.CustomerID == "" {
			// Facturar exige identidad de facturación
			return domain.ErrInvalidInput
		}
		customer, err := r.Customers.GetByID(sale.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}

		invoiceType := invoiceTypeFor(customer.TaxCategory)
		rate := uc.taxRateFor(invoiceType, customer.TaxCategory)
		subtotal, tax := splitTax(sale.Total, rate)

		seq, err := r.Invoices.NextSequence(uc.fiscal.PointOfSale)
		if err != nil {
			return err
		}

		now := time.Now()
		invoice = &entity.Invoice{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			CustomerID:  customer.ID,
			PointOfSale: uc.fiscal.PointOfSale,
			Sequence:    seq,
			Number:      fmt.Sprintf("%s-%08d", uc.fiscal.PointOfSale, seq),
			Type:        invoiceType,
			Date:        now,
			TaxRate:     rate,
			Subtotal:    subtotal,
			TaxTotal:    tax,
			GrandTotal:  sale.Total,

			CustomerName:        customer.Name,
			CustomerTaxID:       customer.TaxID,
			CustomerTaxCategory: customer.TaxCategory,
			CustomerAddress:     customer.Address,

			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Invoices.Create(invoice); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// Perdimos la carrera contra otro emisor: confirmar y traducir
				winner, lookupErr := r.Invoices.GetBySaleID(saleID)
				if lookupErr == nil && winner != nil {
					return domain.ErrAlreadyInvoiced
				}
			}
			return fmt.Errorf("persistir factura: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoice obtiene una factura por ID.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// GetInvoiceBySaleID obtiene la factura de una venta, si existe.
func (uc *CreateInvoiceUseCase) GetInvoiceBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	invoice, err := uc.invoiceRepo.GetBySaleID(saleID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// ListInvoices lista facturas con paginación.
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.invoiceRepo.List(limit, offset)
}

// RegisterFiscalAuthorization graba el CAE y su vencimiento sobre una factura
// emitida. Es el único cambio permitido después de la creación.
func (uc *CreateInvoiceUseCase) RegisterFiscalAuthorization(ctx context.Context, id, cae string, dueDate time.Time) (*entity.Invoice, error) {
	if id == "" || cae == "" {
		return nil, domain.ErrInvalidInput
	}
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.invoiceRepo.UpdateFiscalAuthorization(id, cae, dueDate); err != nil {
		return nil, err
	}
	invoice.CAE = cae
	invoice.CAEDueDate = &dueDate
	invoice.UpdatedAt = time.Now()
	return invoice, nil
}
