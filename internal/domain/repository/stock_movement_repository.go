package repository

import (
	"context"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos de inventario (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error)
}
