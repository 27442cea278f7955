package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías fiscales del cliente (determinan el tipo de factura A/B).
const (
	TaxCategoryResponsableInscripto = "RESPONSABLE_INSCRIPTO"
	TaxCategoryMonotributo          = "MONOTRIBUTO"
	TaxCategoryExento               = "EXENTO"
	TaxCategoryConsumidorFinal      = "CONSUMIDOR_FINAL"
)

// Customer representa un cliente con cuenta corriente.
// CreditBalance se modifica únicamente a través del motor de cuenta corriente;
// la edición de datos (nombre, dirección) nunca toca el saldo.
// Convención de signo (contrato explícito, ver tests del motor): una venta a
// crédito RESTA el total del saldo y un pago lo SUMA.
type Customer struct {
	ID            string
	Name          string
	TaxID         string // CUIT o DNI
	TaxCategory   string
	Address       string
	Email         string
	Phone         string
	CreditLimit   decimal.Decimal
	CreditBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
