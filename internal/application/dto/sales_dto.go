package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// CreateSaleRequest body para POST /api/sales.
// Si IsCredit es true, CustomerID es obligatorio y PaymentType se ignora
// (la venta queda en CUENTA_CORRIENTE).
type CreateSaleRequest struct {
	Items       []SaleItemRequest `json:"items"`
	PaymentType string            `json:"payment_type"`
	CustomerID  string            `json:"customer_id,omitempty"`
	IsCredit    bool              `json:"is_credit"`
}

// SaleItemRequest línea de venta pedida por el cliente. El precio no viaja en
// el request: se toma del catálogo al momento de la venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SaleResponse venta completa en respuestas.
type SaleResponse struct {
	ID           string             `json:"id"`
	Date         string             `json:"date"`
	CustomerID   string             `json:"customer_id,omitempty"`
	IsCreditSale bool               `json:"is_credit_sale"`
	PaymentType  string             `json:"payment_type"`
	Total        decimal.Decimal    `json:"total"`
	Items        []SaleItemResponse `json:"items"`
}

// SaleItemResponse línea de venta en la respuesta.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewSaleResponse arma la respuesta a partir de la entidad.
func NewSaleResponse(sale *entity.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:           sale.ID,
		Date:         sale.Date.Format("2006-01-02T15:04:05Z07:00"),
		CustomerID:   sale.CustomerID,
		IsCreditSale: sale.IsCreditSale,
		PaymentType:  sale.PaymentType,
		Total:        sale.Total,
		Items:        make([]SaleItemResponse, 0, len(sale.Items)),
	}
	for _, it := range sale.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Code:        it.Code,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return resp
}
