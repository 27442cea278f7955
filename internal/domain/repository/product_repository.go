package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) dentro de
	// la transacción activa.
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStock fija el stock resultante; costPrice opcional (compras).
	UpdateStock(id string, newQuantity decimal.Decimal, costPrice *decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
}
