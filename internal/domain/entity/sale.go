package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentTypeCash     = "EFECTIVO"
	PaymentTypeCard     = "TARJETA"
	PaymentTypeTransfer = "TRANSFERENCIA"
	// PaymentTypeCredit es el medio forzado para ventas a cuenta corriente.
	PaymentTypeCredit = "CUENTA_CORRIENTE"
)

// Sale es el agregado de venta: cabecera más sus ítems.
// Los ítems nacen y mueren con la venta; nunca se persisten por separado.
type Sale struct {
	ID           string
	Date         time.Time
	CustomerID   string // vacío para ventas de mostrador
	IsCreditSale bool
	PaymentType  string
	Total        decimal.Decimal // Σ(cantidad × precio unitario), redondeado a 2 decimales
	CreatedBy    string
	Items        []SaleItem
}

// SaleItem es una línea de venta. UnitPrice es una copia del precio de catálogo
// al momento de la venta; cambios posteriores del catálogo no la afectan.
// Code y Description se desnormalizan para que el ticket sobreviva al producto.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Code        string
	Description string
	Quantity    decimal.Decimal // estrictamente positiva
	UnitPrice   decimal.Decimal
}

// ComputeTotal devuelve Σ(cantidad × precio unitario) redondeado a 2 decimales.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	return total.Round(2)
}
