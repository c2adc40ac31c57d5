package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, kind, counterpart_id, operator_id, subtotal, discount, total,
	emission_date, status, payment_method, reference, created_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o    entity.Order
		kind string
	)
	err := row.Scan(&o.ID, &kind, &o.CounterpartID, &o.OperatorID, &o.Subtotal,
		&o.Discount, &o.Total, &o.EmissionDate, &o.Status, &o.PaymentMethod, &o.Reference, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Kind = entity.OrderKind(kind)
	return &o, nil
}

// Create persiste el encabezado del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, o.ID, string(o.Kind), o.CounterpartID, o.OperatorID, o.Subtotal,
		o.Discount, o.Total, o.EmissionDate, o.Status, o.PaymentMethod, o.Reference, o.CreatedAt)
	if err != nil {
		return mapWriteError("insert order", err)
	}
	return nil
}

// CreateItem persiste una línea del pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, line_no, product_id, product_name, quantity, unit_price, subtotal, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, it.ID, it.OrderID, it.LineNo, it.ProductID, it.ProductName, it.Quantity,
		it.UnitPrice, it.Subtotal, it.ExpiryDate)
	if err != nil {
		return mapWriteError("insert order item", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus ítems.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, line_no, product_id, product_name, quantity, unit_price, subtotal, expiry_date
		FROM order_items WHERE order_id = $1 ORDER BY line_no, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.LineNo, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Subtotal, &it.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// orderWhere arma la cláusula WHERE del historial; args queda listo para LIMIT/OFFSET.
func orderWhere(f repository.OrderFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.CounterpartID != "" {
		add("counterpart_id::text = $%d", f.CounterpartID)
	}
	if f.From != nil {
		add("emission_date >= $%d::date", f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		add("emission_date <= $%d::date", f.To.Format("2006-01-02"))
	}
	if f.MinTotal != nil {
		add("total >= $%d", *f.MinTotal)
	}
	if f.MaxTotal != nil {
		add("total <= $%d", *f.MaxTotal)
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// List devuelve el historial filtrado, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	where, args := orderWhere(f)
	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY emission_date DESC, created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Summarize cuenta y suma los pedidos del filtro, ignorando la paginación.
func (r *OrderRepo) Summarize(ctx context.Context, f repository.OrderFilter) (repository.OrderSummary, error) {
	where, args := orderWhere(f)
	var s repository.OrderSummary
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(subtotal), 0), COALESCE(SUM(discount), 0), COALESCE(SUM(total), 0)
		FROM orders`+where, args...).Scan(&s.Count, &s.Subtotal, &s.Discount, &s.Total)
	if err != nil {
		return repository.OrderSummary{}, fmt.Errorf("summarize orders: %w", err)
	}
	return s, nil
}
