package repository

import (
	"time"

	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
// Create debe devolver domain.ErrDuplicate si ya existe una factura para la
// misma venta (constraint UNIQUE sobre sale_id); el caso de uso traduce ese
// conflicto a ErrAlreadyInvoiced.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetBySaleID(saleID string) (*entity.Invoice, error)
	List(limit, offset int) ([]*entity.Invoice, error)
	// NextSequence incrementa y devuelve el consecutivo del punto de venta de
	// forma atómica (contador en tabla, no "leer máximo y sumar uno").
	NextSequence(pointOfSale string) (int64, error)
	// UpdateFiscalAuthorization graba CAE y vencimiento; único update permitido.
	UpdateFiscalAuthorization(id, cae string, dueDate time.Time) error
}
