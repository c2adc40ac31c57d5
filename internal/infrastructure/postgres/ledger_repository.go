package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, direction, counterpart_id, order_id, amount, description, emission_date,
	due_date, status, paid_at, created_at`

// LedgerRepo implementación de cuentas por cobrar/pagar sobre PostgreSQL.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador.
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func scanEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := row.Scan(&e.ID, &e.Direction, &e.CounterpartID, &e.OrderID, &e.Amount, &e.Description,
		&e.EmissionDate, &e.DueDate, &e.Status, &e.PaidAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persiste un asiento.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, e.ID, e.Direction, e.CounterpartID, e.OrderID, e.Amount, e.Description,
		e.EmissionDate, e.DueDate, e.Status, e.PaidAt, e.CreatedAt)
	if err != nil {
		return mapWriteError("insert ledger entry", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// List lista asientos por vencimiento.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Direction != "" {
		add("direction = $%d", f.Direction)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.CounterpartID != "" {
		add("counterpart_id = $%d", f.CounterpartID)
	}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date, created_at"
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return r.list(ctx, query, args...)
}

// ListByOrder lista los asientos de un pedido.
func (r *LedgerRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.LedgerEntry, error) {
	return r.list(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE order_id = $1`, orderID)
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil && !isInvalidTextRepresentation(err) {
		return nil, err
	}
	return list, nil
}

// UpdateStatus cambia el estado de un asiento abierto.
func (r *LedgerRepo) UpdateStatus(ctx context.Context, id, status string, paidAt *time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE ledger_entries SET status = $2, paid_at = $3 WHERE id = $1 AND status = $4`,
		id, status, paidAt, entity.LedgerOpen)
	if err != nil {
		return fmt.Errorf("update ledger status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// SumOpen suma los asientos abiertos de la contraparte.
func (r *LedgerRepo) SumOpen(ctx context.Context, counterpartID, direction string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		WHERE counterpart_id = $1 AND direction = $2 AND status = $3`,
		counterpartID, direction, entity.LedgerOpen).Scan(&total)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("sum open entries: %w", err)
	}
	return total, nil
}
