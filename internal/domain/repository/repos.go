package repository

// Repos agrupa los puertos de persistencia atados a una misma transacción.
// El TxRunner construye una instancia por transacción; todos los repos del
// bundle comparten el mismo handle y por lo tanto ven las escrituras propias.
type Repos struct {
	Products       ProductRepository
	Customers      CustomerRepository
	Sales          SaleRepository
	Movements      InventoryMovementRepository
	Invoices       InvoiceRepository
	CreditPayments CreditPaymentRepository
}
