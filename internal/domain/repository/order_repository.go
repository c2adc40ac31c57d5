package repository

import (
	"context"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos confirmados.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	// GetByID carga el encabezado con sus ítems en el orden del borrador; nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// List devuelve encabezados sin ítems, más recientes primero.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	Summarize(ctx context.Context, filter OrderFilter) (OrderSummary, error)
}
