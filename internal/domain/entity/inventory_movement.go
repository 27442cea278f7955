package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindPurchase   = "PURCHASE"   // compra / reposición
	MovementKindSale       = "SALE"       // salida por venta
	MovementKindAdjustment = "ADJUSTMENT" // ajuste manual
	MovementKindInitial    = "INITIAL"    // carga inicial
)

// InventoryMovement es el registro inmutable que explica un cambio de stock.
// Se crea, jamás se modifica ni se borra: la suma de movimientos de un producto
// debe coincidir con su stock actual.
type InventoryMovement struct {
	ID        string
	ProductID string
	Kind      string
	Quantity  decimal.Decimal // con signo: positivo entrada, negativo salida
	UnitCost  decimal.Decimal // costo unitario al momento del movimiento
	RelatedID string          // ID de la venta u operación que lo originó
	Date      time.Time
	CreatedAt time.Time
	CreatedBy string
}
