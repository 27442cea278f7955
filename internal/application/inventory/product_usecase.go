package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pos-ventas/internal/application/dto"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// ProductUseCase cubre el catálogo: alta y consulta de productos y consulta
// del historial de movimientos. El stock no se edita por acá, solo vía el
// motor de movimientos.
type ProductUseCase struct {
	products  repository.ProductRepository
	movements repository.InventoryMovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, movements repository.InventoryMovementRepository) *ProductUseCase {
	return &ProductUseCase{products: products, movements: movements}
}

// Create da de alta un producto. El stock inicial entra como movimiento
// INITIAL, no por acá: el producto nace con stock cero.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.Code == "" || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SellPrice.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Description:   in.Description,
		SellPrice:     in.SellPrice,
		CostPrice:     in.CostPrice,
		UsesInventory: in.UsesInventory,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.products.Create(product); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	return product, nil
}

// GetByID devuelve un producto o ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List devuelve una página del catálogo.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.products.List(limit, offset)
}

// ListMovements devuelve el historial de movimientos de un producto,
// opcionalmente filtrado por rango de fechas.
func (uc *ProductUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.movements.ListByProduct(productID, from, to, limit, offset)
}
