package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditPayment es el registro inmutable de un pago a cuenta corriente.
// Cada pago suma su monto al saldo del cliente en la misma transacción.
type CreditPayment struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal // estrictamente positivo
	Notes      string
	Date       time.Time
	CreatedBy  string
}
