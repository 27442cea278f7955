package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	TaxCategory string          `json:"tax_category"`
	Address     string          `json:"address,omitempty"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TaxID         string          `json:"tax_id"`
	TaxCategory   string          `json:"tax_category"`
	Address       string          `json:"address,omitempty"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// NewCustomerResponse arma la respuesta a partir de la entidad.
func NewCustomerResponse(c *entity.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		TaxID:         c.TaxID,
		TaxCategory:   c.TaxCategory,
		Address:       c.Address,
		Email:         c.Email,
		Phone:         c.Phone,
		CreditLimit:   c.CreditLimit,
		CreditBalance: c.CreditBalance,
	}
}

// CreditPaymentRequest body para POST /api/customers/:id/payments.
type CreditPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

// CreditPaymentResponse pago registrado.
type CreditPaymentResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes,omitempty"`
	Date       string          `json:"date"`
}

// NewCreditPaymentResponse arma la respuesta a partir de la entidad.
func NewCreditPaymentResponse(p *entity.CreditPayment) *CreditPaymentResponse {
	return &CreditPaymentResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
		Notes:      p.Notes,
		Date:       p.Date.Format("2006-01-02T15:04:05Z07:00"),
	}
}
