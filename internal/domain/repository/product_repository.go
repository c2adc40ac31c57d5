package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByCode devuelve nil, nil si no existe.
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción. nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// AdjustStock suma delta al stock y devuelve el nuevo valor.
	// Devuelve domain.ErrInsufficientStock si el resultado sería negativo.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	// Update reescribe los datos de catálogo sin tocar costo ni stock.
	// domain.ErrNotFound si no existe.
	Update(ctx context.Context, product *entity.Product) error
}
