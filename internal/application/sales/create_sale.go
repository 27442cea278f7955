package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ventas/internal/application/dto"
	"github.com/tu-usuario/pos-ventas/internal/application/inventory"
	"github.com/tu-usuario/pos-ventas/internal/domain"
	"github.com/tu-usuario/pos-ventas/internal/domain/entity"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
)

// CreateSaleUseCase orquesta una venta: valida, congela precios de catálogo,
// persiste cabecera e ítems, descuenta inventario por línea y carga la cuenta
// corriente si la venta es a crédito. Todo dentro de una sola transacción:
// una venta parcial jamás queda visible.
type CreateSaleUseCase struct {
	txRunner    TxRunner
	inventoryUC InventoryEngine
	creditUC    CreditEngine
	saleRepo    repository.SaleRepository // lecturas fuera de transacción
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner TxRunner, inventoryUC InventoryEngine, creditUC CreditEngine, saleRepo repository.SaleRepository) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		inventoryUC: inventoryUC,
		creditUC:    creditUC,
		saleRepo:    saleRepo,
	}
}

// CreateSale crea la venta y devuelve el agregado con todos los IDs asignados.
// Los ítems se procesan en el orden recibido; cantidades fuera de rango se
// rechazan, nunca se corrigen.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.IsCredit && in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.IsCredit && in.PaymentType == "" {
		return nil, domain.ErrInvalidInput
	}

	paymentType := in.PaymentType
	if in.IsCredit {
		// El medio de pago del caller se ignora: la venta queda a cuenta
		paymentType = entity.PaymentTypeCredit
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		Date:         now,
		CustomerID:   in.CustomerID,
		IsCreditSale: in.IsCredit,
		PaymentType:  paymentType,
		CreatedBy:    actorID,
	}

	err := uc.txRunner.Run(ctx, func(r *repository.Repos) error {
		if in.IsCredit {
			customer, err := r.Customers.GetByID(in.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return domain.ErrNotFound
			}
		}

		// Resolver productos y congelar precios dentro de la transacción
		products := make([]*entity.Product, len(in.Items))
		sale.Items = make([]entity.SaleItem, len(in.Items))
		for i, item := range in.Items {
			product, err := r.Products.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			products[i] = product
			sale.Items[i] = entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   product.ID,
				Code:        product.Code,
				Description: product.Description,
				Quantity:    item.Quantity,
				UnitPrice:   product.SellPrice,
			}
		}
		sale.Total = sale.ComputeTotal()

		// Una venta a cuenta sin importe no genera deuda que asentar
		if in.IsCredit && !sale.Total.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}

		if err := r.Sales.Create(sale); err != nil {
			return err
		}

		// Una salida de inventario por ítem con control de stock. Si una línea
		// no alcanza (ErrInsufficientStock), el rollback del TxRunner deshace
		// también el insert de la venta.
		for i, item := range sale.Items {
			if !products[i].UsesInventory {
				continue
			}
			if _, err := uc.inventoryUC.ApplyInTx(r, inventory.MovementInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity.Neg(),
				Kind:      entity.MovementKindSale,
				RelatedID: sale.ID,
				ActorID:   actorID,
			}, now); err != nil {
				return err
			}
		}

		if in.IsCredit {
			return uc.creditUC.IncreaseDebtInTx(r, in.CustomerID, sale.Total)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSale obtiene una venta completa por ID.
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSales devuelve una página de ventas, opcionalmente filtrada por fechas.
func (uc *CreateSaleUseCase) ListSales(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.saleRepo.List(from, to, limit, offset)
}
