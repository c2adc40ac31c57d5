package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

// RecordInput describe un movimiento a aplicar dentro de una transacción abierta.
// SalePrice/PurchasePrice nil toman el valor vigente del producto.
type RecordInput struct {
	ProductID     string
	Direction     string
	Quantity      decimal.Decimal
	Note          string
	CounterpartID *string
	OrderID       *string
	OperatorID    *string
	SalePrice     *decimal.Decimal
	PurchasePrice *decimal.Decimal
	At            time.Time
}

// StockLedger aplica el cambio de stock y escribe su movimiento, siempre juntos.
type StockLedger struct{}

// NewStockLedger construye el escritor del libro de inventario.
func NewStockLedger() *StockLedger { return &StockLedger{} }

// Record suma o resta la cantidad al stock y guarda el movimiento con la foto de antes/después.
// Falla con domain.ErrNotFound si el producto no existe y con domain.ErrInsufficientStock si una
// salida dejaría el stock negativo. Debe ejecutarse con repositorios de una transacción.
func (l *StockLedger) Record(ctx context.Context, uow repository.UnitOfWork, in RecordInput) (*entity.StockMovement, error) {
	if in.Direction != entity.MovementIn && in.Direction != entity.MovementOut {
		return nil, fmt.Errorf("%w: dirección de movimiento %q", domain.ErrInvalidInput, in.Direction)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad de movimiento no positiva", domain.ErrInvalidInput)
	}
	product, err := uow.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}

	delta := in.Quantity
	if in.Direction == entity.MovementOut {
		delta = delta.Neg()
	}
	after, err := uow.Products.AdjustStock(ctx, product.ID, delta)
	if err != nil {
		return nil, fmt.Errorf("producto %s: %w", product.Name, err)
	}

	at := in.At
	if at.IsZero() {
		at = time.Now()
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Direction:     in.Direction,
		Quantity:      in.Quantity,
		StockBefore:   product.Stock,
		StockAfter:    after,
		SalePrice:     orDefault(in.SalePrice, product.Price),
		PurchasePrice: orDefault(in.PurchasePrice, product.Cost),
		CounterpartID: in.CounterpartID,
		OrderID:       in.OrderID,
		OperatorID:    in.OperatorID,
		Note:          in.Note,
		CreatedAt:     at,
	}
	if err := uow.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func orDefault(p *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if p != nil {
		return *p
	}
	return def
}
