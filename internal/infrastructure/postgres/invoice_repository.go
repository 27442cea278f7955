package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, sale_id, customer_id, point_of_sale, sequence, number, type, date,
	       tax_rate, subtotal, tax_total, grand_total,
	       customer_name, customer_tax_id, customer_tax_category, customer_address,
	       cae, cae_due_date, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.SaleID, &inv.CustomerID, &inv.PointOfSale, &inv.Sequence,
		&inv.Number, &inv.Type, &inv.Date,
		&inv.TaxRate, &inv.Subtotal, &inv.TaxTotal, &inv.GrandTotal,
		&inv.CustomerName, &inv.CustomerTaxID, &inv.CustomerTaxCategory, &inv.CustomerAddress,
		&inv.CAE, &inv.CAEDueDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return &inv, nil
}

// Create persiste la factura. El UNIQUE sobre sale_id hace cumplir "a lo sumo
// una factura por venta"; el conflicto se devuelve como domain.ErrDuplicate
// para que el caso de uso lo traduzca.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, sale_id, customer_id, point_of_sale, sequence, number, type, date,
		                      tax_rate, subtotal, tax_total, grand_total,
		                      customer_name, customer_tax_id, customer_tax_category, customer_address,
		                      cae, cae_due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.SaleID, invoice.CustomerID, invoice.PointOfSale, invoice.Sequence,
		invoice.Number, invoice.Type, invoice.Date,
		invoice.TaxRate, invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal,
		// customer_address y cae son NOT NULL DEFAULT '' en el esquema: una
		// factura sin CAE viaja como string vacío, nunca como NULL
		invoice.CustomerName, invoice.CustomerTaxID, invoice.CustomerTaxCategory, invoice.CustomerAddress,
		invoice.CAE, invoice.CAEDueDate, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

// GetBySaleID obtiene la factura de una venta, si existe.
func (r *InvoiceRepo) GetBySaleID(saleID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE sale_id = $1`
	return scanInvoice(r.q.QueryRow(context.Background(), query, saleID))
}

// List lista facturas por fecha descendente.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY date DESC, sequence DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.SaleID, &inv.CustomerID, &inv.PointOfSale, &inv.Sequence,
			&inv.Number, &inv.Type, &inv.Date,
			&inv.TaxRate, &inv.Subtotal, &inv.TaxTotal, &inv.GrandTotal,
			&inv.CustomerName, &inv.CustomerTaxID, &inv.CustomerTaxCategory, &inv.CustomerAddress,
			&inv.CAE, &inv.CAEDueDate, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// NextSequence incrementa y devuelve el consecutivo del punto de venta de
// forma atómica: el UPSERT con RETURNING serializa a los emisores concurrentes
// sobre la fila del contador, así dos facturas nunca comparten número.
func (r *InvoiceRepo) NextSequence(pointOfSale string) (int64, error) {
	query := `
		INSERT INTO invoice_counters (point_of_sale, last_number)
		VALUES ($1, 1)
		ON CONFLICT (point_of_sale)
		DO UPDATE SET last_number = invoice_counters.last_number + 1
		RETURNING last_number`
	var seq int64
	if err := r.q.QueryRow(context.Background(), query, pointOfSale).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return seq, nil
}

// UpdateFiscalAuthorization graba CAE y vencimiento. Ningún otro campo de la
// factura se toca después de creada.
func (r *InvoiceRepo) UpdateFiscalAuthorization(id, cae string, dueDate time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET cae = $2, cae_due_date = $3, updated_at = now() WHERE id = $1`,
		id, cae, dueDate,
	)
	if err != nil {
		return fmt.Errorf("update invoice authorization: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
