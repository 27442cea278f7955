package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura según la categoría fiscal del cliente.
const (
	InvoiceTypeA = "A" // responsable inscripto: IVA discriminado
	InvoiceTypeB = "B" // consumidor final / monotributo / exento: IVA incluido
	InvoiceTypeC = "C" // reservado para emisores exentos
)

// Invoice es la factura derivada de una venta. A lo sumo una por venta
// (UNIQUE sobre SaleID en el esquema). Inmutable una vez creada, salvo los
// campos de autorización fiscal (CAE).
type Invoice struct {
	ID          string
	SaleID      string
	CustomerID  string
	PointOfSale string // prefijo del punto de venta, ej. "0001"
	Sequence    int64  // consecutivo asignado por el contador atómico
	Number      string // "<pos>-<secuencia de 8 dígitos>", ej. "0001-00000042"
	Type        string
	Date        time.Time
	TaxRate     decimal.Decimal // tasa aplicada (0.21) o cero para tipo B/exento
	Subtotal    decimal.Decimal // neto sin IVA, despejado del total
	TaxTotal    decimal.Decimal
	GrandTotal  decimal.Decimal // total de la venta, IVA incluido

	// Snapshot del cliente al momento de facturar; no se actualiza si el
	// cliente cambia después.
	CustomerName        string
	CustomerTaxID       string
	CustomerTaxCategory string
	CustomerAddress     string

	// Autorización fiscal (opcional, único campo mutable post-creación).
	CAE        string
	CAEDueDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
