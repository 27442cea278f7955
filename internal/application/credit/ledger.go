package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el bundle de repos atado a
// ella. Commit si fn devuelve nil; Rollback y propagación del error si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *repository.Repos) error) error
}

// balanceEpsilon tolerancia para considerar saldado un cliente (medio centavo).
var balanceEpsilon = decimal.New(5, -3)

// LedgerUseCase aplica deltas al saldo de cuenta corriente de un cliente.
// Contrato de signo, fijado por tests: IncreaseDebt RESTA el monto del saldo
// y ApplyPayment lo SUMA.
type LedgerUseCase struct {
	txRunner TxRunner
	payments repository.CreditPaymentRepository // lecturas fuera de transacción
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, payments repository.CreditPaymentRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, payments: payments}
}

// IncreaseDebtInTx carga una venta a crédito al saldo del cliente usando los
// repos del caller (misma transacción). El saldo se relee con bloqueo de fila.
func (uc *LedgerUseCase) IncreaseDebtInTx(r *repository.Repos, customerID string, amount decimal.Decimal) error {
	if !amount.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	customer, err := r.Customers.GetForUpdate(customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	newBalance := customer.CreditBalance.Sub(amount)
	ok, err := r.Customers.UpdateBalance(customerID, newBalance)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyPayment registra un pago de cuenta corriente: suma el monto al saldo y
// persiste el registro inmutable del pago, todo en una transacción.
func (uc *LedgerUseCase) ApplyPayment(ctx context.Context, customerID, actorID string, amount decimal.Decimal, notes string) (*entity.CreditPayment, error) {
	if customerID == "" || !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var payment *entity.CreditPayment
	err := uc.txRunner.Run(ctx, func(r *repository.Repos) error {
		customer, err := r.Customers.GetForUpdate(customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		newBalance := customer.CreditBalance.Add(amount)
		ok, err := r.Customers.UpdateBalance(customerID, newBalance)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
		payment = &entity.CreditPayment{
			ID:         uuid.New().String(),
			CustomerID: customerID,
			Amount:     amount,
			Notes:      notes,
			Date:       time.Now(),
			CreatedBy:  actorID,
		}
		return r.CreditPayments.Create(payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// DeleteCustomer elimina un cliente solo si su cuenta corriente está saldada.
// Un saldo distinto de cero (fuera de epsilon) bloquea la baja: la deuda no se
// condona borrando al deudor.
func (uc *LedgerUseCase) DeleteCustomer(ctx context.Context, customerID string) error {
	if customerID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r *repository.Repos) error {
		customer, err := r.Customers.GetForUpdate(customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if customer.CreditBalance.Abs().GreaterThan(balanceEpsilon) {
			return domain.ErrOutstandingBalance
		}
		return r.Customers.Delete(customerID)
	})
}

// ListPayments devuelve los pagos registrados de un cliente.
func (uc *LedgerUseCase) ListPayments(ctx context.Context, customerID string, limit, offset int) ([]*entity.CreditPayment, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.payments.ListByCustomer(customerID, limit, offset)
}
