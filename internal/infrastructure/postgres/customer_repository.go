package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, name, tax_id, tax_category, address, email, phone, credit_limit, credit_balance, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var address, email, phone *string
	err := row.Scan(
		&c.ID, &c.Name, &c.TaxID, &c.TaxCategory, &address, &email, &phone,
		&c.CreditLimit, &c.CreditBalance, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	c.Address = derefStr(address)
	c.Email = derefStr(email)
	c.Phone = derefStr(phone)
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, tax_id, tax_category, address, email, phone, credit_limit, credit_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.TaxID, customer.TaxCategory,
		nullIfEmpty(customer.Address), nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone),
		customer.CreditLimit, customer.CreditBalance, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el cliente y bloquea la fila (SELECT FOR UPDATE).
func (r *CustomerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`
	return scanCustomer(r.q.QueryRow(context.Background(), query, id))
}

// UpdateBalance fija el saldo de cuenta corriente. Devuelve false si el
// cliente no existe. De uso exclusivo del motor de cuenta corriente.
func (r *CustomerRepo) UpdateBalance(id string, newBalance decimal.Decimal) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE customers SET credit_balance = $2, updated_at = now() WHERE id = $1`,
		id, newBalance,
	)
	if err != nil {
		return false, fmt.Errorf("update customer balance: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Update actualiza los datos del cliente. El saldo no está en el SET:
// solo se mueve vía UpdateBalance.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, tax_id = $3, tax_category = $4, address = $5,
		    email = $6, phone = $7, credit_limit = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.TaxID, customer.TaxCategory,
		nullIfEmpty(customer.Address), nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone),
		customer.CreditLimit, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. La regla de saldo cero la valida el caso de uso.
func (r *CustomerRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista clientes con paginación.
func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		var address, email, phone *string
		if err := rows.Scan(
			&c.ID, &c.Name, &c.TaxID, &c.TaxCategory, &address, &email, &phone,
			&c.CreditLimit, &c.CreditBalance, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.Address = derefStr(address)
		c.Email = derefStr(email)
		c.Phone = derefStr(phone)
		list = append(list, &c)
	}
	return list, rows.Err()
}
