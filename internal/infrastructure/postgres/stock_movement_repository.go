package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, direction, quantity, stock_before, stock_after, sale_price,
	purchase_price, counterpart_id, order_id, operator_id, note, created_at`

// StockMovementRepo implementación del kardex sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.Direction, m.Quantity, m.StockBefore, m.StockAfter,
		m.SalePrice, m.PurchasePrice, m.CounterpartID, m.OrderID, m.OperatorID, m.Note, m.CreatedAt)
	if err != nil {
		return mapWriteError("insert stock movement", err)
	}
	return nil
}

// ListByProduct lista movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
}

// ListByOrder lista movimientos generados por un pedido.
func (r *StockMovementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE order_id = $1 ORDER BY created_at`, orderID)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.StockBefore, &m.StockAfter,
			&m.SalePrice, &m.PurchasePrice, &m.CounterpartID, &m.OrderID, &m.OperatorID, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil && !isInvalidTextRepresentation(err) {
		return nil, err
	}
	return list, nil
}
