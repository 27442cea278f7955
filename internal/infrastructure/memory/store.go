// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con transacciones por snapshot: Run clona el estado, ejecuta el
// callback y restaura el clon si hay error. Sirve para el modo dev sin base
// de datos y para los tests de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/application/billing"
	"github.com/tu-usuario/pos-ventas/internal/application/credit"
	"github.com/tu-usuario/pos-ventas/internal/application/inventory"
	"github.com/tu-usuario/pos-ventas/internal/application/sales"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// Store guarda todo el estado. El mutex serializa las transacciones: dentro
// de un Run nadie más lee ni escribe, que es la misma garantía que da el
// bloqueo de fila en PostgreSQL, solo que de grano grueso.
type Store struct {
	mu sync.Mutex

	products       map[string]entity.Product
	customers      map[string]entity.Customer
	sales          map[string]entity.Sale
	movements      []entity.InventoryMovement
	invoices       map[string]entity.Invoice
	invoicesBySale map[string]string
	payments       []entity.CreditPayment
	counters       map[string]int64
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		products:       make(map[string]entity.Product),
		customers:      make(map[string]entity.Customer),
		sales:          make(map[string]entity.Sale),
		invoices:       make(map[string]entity.Invoice),
		invoicesBySale: make(map[string]string),
		counters:       make(map[string]int64),
	}
}

// snapshot clona el estado completo para poder restaurarlo en un rollback.
func (s *Store) snapshot() *Store {
	clone := New()
	for k, v := range s.products {
		clone.products[k] = v
	}
	for k, v := range s.customers {
		clone.customers[k] = v
	}
	for k, v := range s.sales {
		v.Items = append([]entity.SaleItem(nil), v.Items...)
		clone.sales[k] = v
	}
	clone.movements = append([]entity.InventoryMovement(nil), s.movements...)
	for k, v := range s.invoices {
		clone.invoices[k] = v
	}
	for k, v := range s.invoicesBySale {
		clone.invoicesBySale[k] = v
	}
	clone.payments = append([]entity.CreditPayment(nil), s.payments...)
	for k, v := range s.counters {
		clone.counters[k] = v
	}
	return clone
}

func (s *Store) restore(snap *Store) {
	s.products = snap.products
	s.customers = snap.customers
	s.sales = snap.sales
	s.movements = snap.movements
	s.invoices = snap.invoices
	s.invoicesBySale = snap.invoicesBySale
	s.payments = snap.payments
	s.counters = snap.counters
}

// Ensure TxRunner implements los puertos TxRunner de cada caso de uso.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ credit.TxRunner = (*TxRunner)(nil)
var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks contra el Store con semántica de transacción.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el lock, clona el estado y ejecuta fn con repos sin sincronización
// propia (el lock ya está tomado). Error de fn => restaurar el clon.
func (r *TxRunner) Run(ctx context.Context, fn func(repos *repository.Repos) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	if err := fn(r.store.repos(false)); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// Repos devuelve repos con lock por operación, para lecturas fuera de
// transacción (equivalente a los repos atados al pool en postgres).
func (s *Store) Repos() *repository.Repos {
	return s.repos(true)
}

func (s *Store) repos(sync bool) *repository.Repos {
	return &repository.Repos{
		Products:       &productRepo{s: s, sync: sync},
		Customers:      &customerRepo{s: s, sync: sync},
		Sales:          &saleRepo{s: s, sync: sync},
		Movements:      &movementRepo{s: s, sync: sync},
		Invoices:       &invoiceRepo{s: s, sync: sync},
		CreditPayments: &paymentRepo{s: s, sync: sync},
	}
}

// lock toma el mutex solo para repos fuera de transacción.
func lock(s *Store, sync bool) func() {
	if !sync {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// SeedProduct inserta un producto directamente (carga inicial en modo dev).
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// SeedCustomer inserta un cliente directamente.
func (s *Store) SeedCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

// MovementsByRelated devuelve los movimientos originados por una operación
// (auditoría y tests).
func (s *Store) MovementsByRelated(relatedID string) []entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.InventoryMovement
	for _, m := range s.movements {
		if m.RelatedID == relatedID {
			out = append(out, m)
		}
	}
	return out
}

// PaymentsByCustomer devuelve los pagos de un cliente (auditoría y tests).
func (s *Store) PaymentsByCustomer(customerID string) []entity.CreditPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.CreditPayment
	for _, p := range s.payments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}

var _ repository.ProductRepository = (*productRepo)(nil)
var _ repository.CustomerRepository = (*customerRepo)(nil)
var _ repository.SaleRepository = (*saleRepo)(nil)
var _ repository.InventoryMovementRepository = (*movementRepo)(nil)
var _ repository.InvoiceRepository = (*invoiceRepo)(nil)
var _ repository.CreditPaymentRepository = (*paymentRepo)(nil)

type productRepo struct {
	s    *Store
	sync bool
}

func (r *productRepo) Create(product *entity.Product) error {
	defer lock(r.s, r.sync)()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	defer lock(r.s, r.sync)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate: el lock de la transacción ya excluye a los demás escritores.
func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepo) UpdateStock(id string, newQuantity decimal.Decimal, costPrice *decimal.Decimal) error {
	defer lock(r.s, r.sync)()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.QuantityInStock = newQuantity
	if costPrice != nil {
		p.CostPrice = *costPrice
	}
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	defer lock(r.s, r.sync)()
	var list []*entity.Product
	for _, p := range r.s.products {
		p := p
		list = append(list, &p)
	}
	// Mismo orden que el repo postgres (ORDER BY code)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return paginate(list, limit, offset), nil
}

type customerRepo struct {
	s    *Store
	sync bool
}

func (r *customerRepo) Create(customer *entity.Customer) error {
	defer lock(r.s, r.sync)()
	if _, ok := r.s.customers[customer.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepo) GetByID(id string) (*entity.Customer, error) {
	defer lock(r.s, r.sync)()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	return r.GetByID(id)
}

func (r *customerRepo) UpdateBalance(id string, newBalance decimal.Decimal) (bool, error) {
	defer lock(r.s, r.sync)()
	c, ok := r.s.customers[id]
	if !ok {
		return false, nil
	}
	c.CreditBalance = newBalance
	c.UpdatedAt = time.Now()
	r.s.customers[id] = c
	return true, nil
}

func (r *customerRepo) Update(customer *entity.Customer) error {
	defer lock(r.s, r.sync)()
	current, ok := r.s.customers[customer.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// El saldo no se pisa: solo se mueve vía UpdateBalance
	next := *customer
	next.CreditBalance = current.CreditBalance
	r.s.customers[customer.ID] = next
	return nil
}

func (r *customerRepo) Delete(id string) error {
	defer lock(r.s, r.sync)()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}

func (r *customerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	defer lock(r.s, r.sync)()
	var list []*entity.Customer
	for _, c := range r.s.customers {
		c := c
		list = append(list, &c)
	}
	// Mismo orden que el repo postgres (ORDER BY name)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

type saleRepo struct {
	s    *Store
	sync bool
}

func (r *saleRepo) Create(sale *entity.Sale) error {
	defer lock(r.s, r.sync)()
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	stored := *sale
	stored.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales[sale.ID] = stored
	return nil
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	defer lock(r.s, r.sync)()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return &s, nil
}

func (r *saleRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	defer lock(r.s, r.sync)()
	var list []*entity.Sale
	for _, s := range r.s.sales {
		if from != nil && s.Date.Before(*from) {
			continue
		}
		if to != nil && !s.Date.Before(*to) {
			continue
		}
		s := s
		list = append(list, &s)
	}
	// Mismo orden que el repo postgres (ORDER BY date DESC)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

type movementRepo struct {
	s    *Store
	sync bool
}

func (r *movementRepo) Create(movement *entity.InventoryMovement) error {
	defer lock(r.s, r.sync)()
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *movementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	defer lock(r.s, r.sync)()
	var list []*entity.InventoryMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && !m.Date.Before(*to) {
			continue
		}
		list = append(list, &m)
	}
	// Mismo orden que el repo postgres (ORDER BY date DESC)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

type invoiceRepo struct {
	s    *Store
	sync bool
}

func (r *invoiceRepo) Create(invoice *entity.Invoice) error {
	defer lock(r.s, r.sync)()
	// Misma regla que el UNIQUE(sale_id) del esquema
	if _, ok := r.s.invoicesBySale[invoice.SaleID]; ok {
		return domain.ErrDuplicate
	}
	r.s.invoices[invoice.ID] = *invoice
	r.s.invoicesBySale[invoice.SaleID] = invoice.ID
	return nil
}

func (r *invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	defer lock(r.s, r.sync)()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) GetBySaleID(saleID string) (*entity.Invoice, error) {
	defer lock(r.s, r.sync)()
	id, ok := r.s.invoicesBySale[saleID]
	if !ok {
		return nil, nil
	}
	inv := r.s.invoices[id]
	return &inv, nil
}

func (r *invoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	defer lock(r.s, r.sync)()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		inv := inv
		list = append(list, &inv)
	}
	// Mismo orden que el repo postgres (ORDER BY date DESC, sequence DESC)
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].Sequence > list[j].Sequence
	})
	return paginate(list, limit, offset), nil
}

func (r *invoiceRepo) NextSequence(pointOfSale string) (int64, error) {
	defer lock(r.s, r.sync)()
	r.s.counters[pointOfSale]++
	return r.s.counters[pointOfSale], nil
}

func (r *invoiceRepo) UpdateFiscalAuthorization(id, cae string, dueDate time.Time) error {
	defer lock(r.s, r.sync)()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.CAE = cae
	due := dueDate
	inv.CAEDueDate = &due
	inv.UpdatedAt = time.Now()
	r.s.invoices[id] = inv
	return nil
}

type paymentRepo struct {
	s    *Store
	sync bool
}

func (r *paymentRepo) Create(payment *entity.CreditPayment) error {
	defer lock(r.s, r.sync)()
	r.s.payments = append(r.s.payments, *payment)
	return nil
}

func (r *paymentRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.CreditPayment, error) {
	defer lock(r.s, r.sync)()
	var list []*entity.CreditPayment
	for i := range r.s.payments {
		p := r.s.payments[i]
		if p.CustomerID == customerID {
			list = append(list, &p)
		}
	}
	// Mismo orden que el repo postgres (ORDER BY date DESC)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
