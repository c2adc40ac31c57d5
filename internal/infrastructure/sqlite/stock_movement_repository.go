package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, direction, quantity, stock_before, stock_after, sale_price,
	purchase_price, counterpart_id, order_id, operator_id, note, created_at`

type movementRow struct {
	ID            string          `db:"id"`
	ProductID     string          `db:"product_id"`
	Direction     string          `db:"direction"`
	Quantity      decimal.Decimal `db:"quantity"`
	StockBefore   decimal.Decimal `db:"stock_before"`
	StockAfter    decimal.Decimal `db:"stock_after"`
	SalePrice     decimal.Decimal `db:"sale_price"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	CounterpartID sql.NullString  `db:"counterpart_id"`
	OrderID       sql.NullString  `db:"order_id"`
	OperatorID    sql.NullString  `db:"operator_id"`
	Note          string          `db:"note"`
	CreatedAt     string          `db:"created_at"`
}

// StockMovementRepo implementación del kardex sobre SQLite.
type StockMovementRepo struct {
	q sqlx.ExtContext
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q sqlx.ExtContext) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO stock_movements (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Direction, m.Quantity, m.StockBefore, m.StockAfter, m.SalePrice, m.PurchasePrice,
		nullString(m.CounterpartID), nullString(m.OrderID), nullString(m.OperatorID), m.Note, formatTime(m.CreatedAt))
	if err != nil {
		return mapWriteError("insert stock movement", err)
	}
	return nil
}

// ListByProduct lista movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, productID, limit, offset)
}

// ListByOrder lista movimientos generados por un pedido.
func (r *StockMovementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE order_id = ? ORDER BY created_at`, orderID)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	list := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		list = append(list, &entity.StockMovement{
			ID:            row.ID,
			ProductID:     row.ProductID,
			Direction:     row.Direction,
			Quantity:      row.Quantity,
			StockBefore:   row.StockBefore,
			StockAfter:    row.StockAfter,
			SalePrice:     row.SalePrice,
			PurchasePrice: row.PurchasePrice,
			CounterpartID: stringPtr(row.CounterpartID),
			OrderID:       stringPtr(row.OrderID),
			OperatorID:    stringPtr(row.OperatorID),
			Note:          row.Note,
			CreatedAt:     parseTime(row.CreatedAt),
		})
	}
	return list, nil
}
