package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, kind, counterpart_id, operator_id, subtotal, discount, total,
	emission_date, status, payment_method, reference, created_at`

type orderRow struct {
	ID            string          `db:"id"`
	Kind          string          `db:"kind"`
	CounterpartID sql.NullString  `db:"counterpart_id"`
	OperatorID    sql.NullString  `db:"operator_id"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Discount      decimal.Decimal `db:"discount"`
	Total         decimal.Decimal `db:"total"`
	EmissionDate  string          `db:"emission_date"`
	Status        string          `db:"status"`
	PaymentMethod string          `db:"payment_method"`
	Reference     string          `db:"reference"`
	CreatedAt     string          `db:"created_at"`
}

func (r orderRow) toEntity() *entity.Order {
	return &entity.Order{
		ID:            r.ID,
		Kind:          entity.OrderKind(r.Kind),
		CounterpartID: stringPtr(r.CounterpartID),
		OperatorID:    stringPtr(r.OperatorID),
		Subtotal:      r.Subtotal,
		Discount:      r.Discount,
		Total:         r.Total,
		EmissionDate:  parseDate(r.EmissionDate),
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		CreatedAt:     parseTime(r.CreatedAt),
	}
}

type orderItemRow struct {
	ID          string          `db:"id"`
	OrderID     string          `db:"order_id"`
	LineNo      int             `db:"line_no"`
	ProductID   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Subtotal    decimal.Decimal `db:"subtotal"`
	ExpiryDate  sql.NullString  `db:"expiry_date"`
}

// OrderRepo implementación de OrderRepository sobre SQLite.
type OrderRepo struct {
	q sqlx.ExtContext
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q sqlx.ExtContext) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el encabezado del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, string(o.Kind), nullString(o.CounterpartID), nullString(o.OperatorID), o.Subtotal, o.Discount,
		o.Total, formatDate(o.EmissionDate), o.Status, o.PaymentMethod, o.Reference, formatTime(o.CreatedAt))
	if err != nil {
		return mapWriteError("insert order", err)
	}
	return nil
}

// CreateItem persiste una línea del pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, line_no, product_id, product_name, quantity, unit_price, subtotal, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.OrderID, it.LineNo, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal,
		nullDate(it.ExpiryDate))
	if err != nil {
		return mapWriteError("insert order item", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus ítems.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var row orderRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o := row.toEntity()

	var items []orderItemRow
	err = sqlx.SelectContext(ctx, r.q, &items, `
		SELECT id, order_id, line_no, product_id, product_name, quantity, unit_price, subtotal, expiry_date
		FROM order_items WHERE order_id = ? ORDER BY line_no, rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	for _, it := range items {
		o.Items = append(o.Items, entity.OrderItem{
			ID:          it.ID,
			OrderID:     it.OrderID,
			LineNo:      it.LineNo,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			ExpiryDate:  datePtr(it.ExpiryDate),
		})
	}
	return o, nil
}

// filtered aplica en SQL los filtros de texto y fecha; los importes se comparan aquí
// porque en SQLite son textos.
func (r *OrderRepo) filtered(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where, args = append(where, "kind = ?"), append(args, f.Kind)
	}
	if f.Status != "" {
		where, args = append(where, "status = ?"), append(args, f.Status)
	}
	if f.CounterpartID != "" {
		where, args = append(where, "counterpart_id = ?"), append(args, f.CounterpartID)
	}
	if f.From != nil {
		where, args = append(where, "emission_date >= ?"), append(args, formatDate(*f.From))
	}
	if f.To != nil {
		where, args = append(where, "emission_date <= ?"), append(args, formatDate(*f.To))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY emission_date DESC, created_at DESC"

	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	list := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		if f.MinTotal != nil && row.Total.LessThan(*f.MinTotal) {
			continue
		}
		if f.MaxTotal != nil && row.Total.GreaterThan(*f.MaxTotal) {
			continue
		}
		list = append(list, row.toEntity())
	}
	return list, nil
}

// List devuelve el historial filtrado, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	list, err := r.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list, nil
}

// Summarize cuenta y suma los pedidos del filtro, ignorando la paginación.
func (r *OrderRepo) Summarize(ctx context.Context, f repository.OrderFilter) (repository.OrderSummary, error) {
	list, err := r.filtered(ctx, f)
	if err != nil {
		return repository.OrderSummary{}, err
	}
	s := repository.OrderSummary{Count: len(list)}
	for _, o := range list {
		s.Subtotal = s.Subtotal.Add(o.Subtotal)
		s.Discount = s.Discount.Add(o.Discount)
		s.Total = s.Total.Add(o.Total)
	}
	return s, nil
}
