package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, description, cost, price, stock, min_stock, active, supplier_id, created_at, updated_at`

type productRow struct {
	ID          string          `db:"id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Cost        decimal.Decimal `db:"cost"`
	Price       decimal.Decimal `db:"price"`
	Stock       decimal.Decimal `db:"stock"`
	MinStock    decimal.Decimal `db:"min_stock"`
	Active      bool            `db:"active"`
	SupplierID  sql.NullString  `db:"supplier_id"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Cost:        r.Cost,
		Price:       r.Price,
		Stock:       r.Stock,
		MinStock:    r.MinStock,
		Active:      r.Active,
		SupplierID:  stringPtr(r.SupplierID),
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

// ProductRepo implementación de ProductRepository sobre SQLite.
type ProductRepo struct {
	q sqlx.ExtContext
}

// NewProductRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewProductRepository(q sqlx.ExtContext) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.Name, p.Description, p.Cost, p.Price, p.Stock, p.MinStock, p.Active,
		nullString(p.SupplierID), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return mapWriteError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity(), nil
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+productColumns+` FROM products WHERE code = ? LIMIT 1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate equivale a GetByID: la única conexión ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List lista productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if f.ActiveOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		p := row.toEntity()
		// la comparación decimal se hace aquí: en SQL serían textos
		if f.BelowMinimum && !p.BelowMinimum() {
			continue
		}
		list = append(list, p)
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

// AdjustStock lee el stock, calcula el nuevo valor y lo escribe con compare-and-swap.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var raw string
	err := sqlx.GetContext(ctx, r.q, &raw, `SELECT stock FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		return decimal.Zero, fmt.Errorf("read stock: %w", err)
	}
	current, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock corrupto en producto %s: %w", id, err)
	}
	after := current.Add(delta)
	if after.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: disponible %s, solicitado %s",
			domain.ErrInsufficientStock, current.String(), delta.Neg().String())
	}
	res, err := r.q.ExecContext(ctx, `UPDATE products SET stock = ?, updated_at = ? WHERE id = ? AND stock = ?`,
		after, formatTime(time.Now()), id, raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("adjust stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return decimal.Zero, fmt.Errorf("%w: stock modificado concurrentemente", domain.ErrConflict)
	}
	return after, nil
}

// UpdateCost actualiza el costo del producto.
func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET cost = ?, updated_at = ? WHERE id = ?`,
		cost, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("update cost: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update reescribe los datos de catálogo. Costo y stock solo cambian por movimientos.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET code = ?, name = ?, description = ?, price = ?, min_stock = ?, active = ?, supplier_id = ?, updated_at = ?
		WHERE id = ?`,
		p.Code, p.Name, p.Description, p.Price, p.MinStock, p.Active, nullString(p.SupplierID),
		formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return mapWriteError("update product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.ID)
	}
	return nil
}
