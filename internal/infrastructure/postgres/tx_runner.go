package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/pos-ventas/internal/application/billing"
	"github.com/tu-usuario/pos-ventas/internal/application/credit"
	"github.com/tu-usuario/pos-ventas/internal/application/inventory"
	"github.com/tu-usuario/pos-ventas/internal/application/sales"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// Ensure TxRunner implements los puertos TxRunner de cada caso de uso.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ credit.TxRunner = (*TxRunner)(nil)
var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada Run
// abre una transacción independiente; no hay estado de sesión compartido.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos construye el bundle de repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) *repository.Repos {
	return &repository.Repos{
		Products:       NewProductRepository(q),
		Customers:      NewCustomerRepository(q),
		Sales:          NewSaleRepository(q),
		Movements:      NewInventoryMovementRepository(q),
		Invoices:       NewInvoiceRepository(q),
		CreditPayments: NewCreditPaymentRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y hace
// Commit en éxito o Rollback ante cualquier error, que se propaga sin tocar.
func (r *TxRunner) Run(ctx context.Context, fn func(repos *repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
