package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

var _ repository.CreditPaymentRepository = (*CreditPaymentRepo)(nil)

// CreditPaymentRepo implementación de CreditPaymentRepository (usable con pool o tx).
// Tabla append-only: los pagos no se corrigen, se compensan con otro pago.
type CreditPaymentRepo struct {
	q Querier
}

// NewCreditPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditPaymentRepository(q Querier) *CreditPaymentRepo {
	return &CreditPaymentRepo{q: q}
}

// Create persiste un pago de cuenta corriente.
func (r *CreditPaymentRepo) Create(payment *entity.CreditPayment) error {
	query := `
		INSERT INTO credit_payments (id, customer_id, amount, notes, date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.CustomerID, payment.Amount, nullIfEmpty(payment.Notes),
		payment.Date, payment.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert credit payment: %w", err)
	}
	return nil
}

// ListByCustomer lista pagos de un cliente, los más recientes primero.
func (r *CreditPaymentRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.CreditPayment, error) {
	query := `
		SELECT id, customer_id, amount, notes, date, created_by
		FROM credit_payments WHERE customer_id = $1
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list credit payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.CreditPayment
	for rows.Next() {
		var p entity.CreditPayment
		var notes *string
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &notes, &p.Date, &p.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan credit payment: %w", err)
		}
		p.Notes = derefStr(notes)
		list = append(list, &p)
	}
	return list, rows.Err()
}
