package repository

import (
	"time"

	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para el agregado Sale.
// Create persiste cabecera e ítems juntos; GetByID devuelve la venta completa.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
