package repository

import "github.com/tu-usuario/pos-ventas/internal/domain/entity"

// CreditPaymentRepository define el puerto para los pagos de cuenta corriente.
type CreditPaymentRepository interface {
	Create(payment *entity.CreditPayment) error
	ListByCustomer(customerID string, limit, offset int) ([]*entity.CreditPayment, error)
}
