package billing

import (
	"context"

	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el bundle de repos atado a
// ella. Commit si fn devuelve nil; Rollback y propagación del error si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *repository.Repos) error) error
}

// InvoicePDFGenerator genera la representación gráfica de la factura.
// La venta aporta las líneas; el snapshot del cliente viaja en la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, sale *entity.Sale) ([]byte, error)
}
