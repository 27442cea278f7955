package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products. El stock inicial se
// carga después con un movimiento INITIAL.
type CreateProductRequest struct {
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	UsesInventory bool            `json:"uses_inventory"`
}

// MovementResponse movimiento de inventario en respuestas.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	RelatedID string          `json:"related_id,omitempty"`
	Date      string          `json:"date"`
}

// NewMovementResponse arma la respuesta a partir de la entidad.
func NewMovementResponse(m *entity.InventoryMovement) *MovementResponse {
	return &MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		RelatedID: m.RelatedID,
		Date:      m.Date.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity lleva signo; UnitCost es obligatorio para PURCHASE.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Kind      string           `json:"kind"` // PURCHASE | ADJUSTMENT | INITIAL
	RelatedID string           `json:"related_id,omitempty"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ProductResponse producto en respuestas (snapshot de stock incluido).
type ProductResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	QuantityInStock decimal.Decimal `json:"quantity_in_stock"`
	UsesInventory   bool            `json:"uses_inventory"`
}

// NewProductResponse arma la respuesta a partir de la entidad.
func NewProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Description:     p.Description,
		SellPrice:       p.SellPrice,
		CostPrice:       p.CostPrice,
		QuantityInStock: p.QuantityInStock,
		UsesInventory:   p.UsesInventory,
	}
}
