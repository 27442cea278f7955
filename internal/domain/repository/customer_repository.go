package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// UpdateBalance es de uso exclusivo del motor de cuenta corriente; Update
// cubre los datos del cliente y no toca el saldo.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetForUpdate(id string) (*entity.Customer, error)
	UpdateBalance(id string, newBalance decimal.Decimal) (bool, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.Customer, error)
}
