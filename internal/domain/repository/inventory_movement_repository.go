package repository

import (
	"time"

	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// InventoryMovementRepository define el puerto para el historial de movimientos.
// Solo alta y consulta: los movimientos son inmutables.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
