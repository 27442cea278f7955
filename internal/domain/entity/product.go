package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// QuantityInStock se modifica únicamente a través del motor de inventario;
// para productos con UsesInventory nunca puede quedar negativo.
type Product struct {
	ID              string
	Code            string // código único (SKU o código de barras)
	Description     string
	SellPrice       decimal.Decimal // precio de venta (IVA incluido)
	CostPrice       decimal.Decimal // último costo de compra
	QuantityInStock decimal.Decimal
	UsesInventory   bool // false para servicios (sin control de stock)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
