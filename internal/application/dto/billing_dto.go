package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	SaleID string `json:"sale_id"`
}

// FiscalAuthorizationRequest body para PUT /api/invoices/:id/authorization.
type FiscalAuthorizationRequest struct {
	CAE     string `json:"cae"`
	DueDate string `json:"due_date"` // YYYY-MM-DD
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	CustomerID  string          `json:"customer_id"`
	Number      string          `json:"number"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxTotal    decimal.Decimal `json:"tax_total"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	CAE         string          `json:"cae,omitempty"`
	CAEDueDate  string          `json:"cae_due_date,omitempty"`
	Customer    InvoiceCustomer `json:"customer"`
}

// InvoiceCustomer snapshot del cliente al momento de facturar.
type InvoiceCustomer struct {
	Name        string `json:"name"`
	TaxID       string `json:"tax_id"`
	TaxCategory string `json:"tax_category"`
	Address     string `json:"address,omitempty"`
}

// NewInvoiceResponse arma la respuesta a partir de la entidad.
func NewInvoiceResponse(inv *entity.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:         inv.ID,
		SaleID:     inv.SaleID,
		CustomerID: inv.CustomerID,
		Number:     inv.Number,
		Type:       inv.Type,
		Date:       inv.Date.Format("2006-01-02"),
		TaxRate:    inv.TaxRate,
		Subtotal:   inv.Subtotal,
		TaxTotal:   inv.TaxTotal,
		GrandTotal: inv.GrandTotal,
		CAE:        inv.CAE,
		Customer: InvoiceCustomer{
			Name:        inv.CustomerName,
			TaxID:       inv.CustomerTaxID,
			TaxCategory: inv.CustomerTaxCategory,
			Address:     inv.CustomerAddress,
		},
	}
	if inv.CAEDueDate != nil {
		resp.CAEDueDate = inv.CAEDueDate.Format("2006-01-02")
	}
	return resp
}
