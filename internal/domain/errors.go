package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNoInventoryTracking = errors.New("el producto no maneja inventario")
	ErrAlreadyInvoiced     = errors.New("la venta ya tiene factura")
	ErrOutstandingBalance  = errors.New("el cliente tiene saldo pendiente")
)
