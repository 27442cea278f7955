package billing

import (
	"context"

	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica de una factura emitida.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	saleRepo    repository.SaleRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, saleRepo repository.SaleRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		generator:   generator,
	}
}

// GenerateInvoicePDF devuelve los bytes del PDF de la factura. Lee factura y
// venta; ambos son solo lectura acá, no hay transacción que coordinar.
func (uc *PDFUseCase) GenerateInvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	sale, err := uc.saleRepo.GetByID(invoice.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateInvoicePDF(ctx, invoice, sale)
}
