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

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, direction, counterpart_id, order_id, amount, description, emission_date,
	due_date, status, paid_at, created_at`

type ledgerRow struct {
	ID            string          `db:"id"`
	Direction     string          `db:"direction"`
	CounterpartID sql.NullString  `db:"counterpart_id"`
	OrderID       sql.NullString  `db:"order_id"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	EmissionDate  string          `db:"emission_date"`
	DueDate       string          `db:"due_date"`
	Status        string          `db:"status"`
	PaidAt        sql.NullString  `db:"paid_at"`
	CreatedAt     string          `db:"created_at"`
}

func (r ledgerRow) toEntity() *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:            r.ID,
		Direction:     r.Direction,
		CounterpartID: stringPtr(r.CounterpartID),
		OrderID:       stringPtr(r.OrderID),
		Amount:        r.Amount,
		Description:   r.Description,
		EmissionDate:  parseDate(r.EmissionDate),
		DueDate:       parseDate(r.DueDate),
		Status:        r.Status,
		PaidAt:        timePtr(r.PaidAt),
		CreatedAt:     parseTime(r.CreatedAt),
	}
}

// LedgerRepo implementación de cuentas por cobrar/pagar sobre SQLite.
type LedgerRepo struct {
	q sqlx.ExtContext
}

// NewLedgerRepository construye el adaptador.
func NewLedgerRepository(q sqlx.ExtContext) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create persiste un asiento.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO ledger_entries (`+ledgerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Direction, nullString(e.CounterpartID), nullString(e.OrderID), e.Amount, e.Description,
		formatDate(e.EmissionDate), formatDate(e.DueDate), e.Status, nullTime(e.PaidAt), formatTime(e.CreatedAt))
	if err != nil {
		return mapWriteError("insert ledger entry", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	var row ledgerRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return row.toEntity(), nil
}

// List lista asientos por vencimiento.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.Direction != "" {
		where = append(where, "direction = ?")
		args = append(args, f.Direction)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.CounterpartID != "" {
		where = append(where, "counterpart_id = ?")
		args = append(args, f.CounterpartID)
	}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date, created_at"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}
	return r.list(ctx, query, args...)
}

// ListByOrder lista los asientos de un pedido.
func (r *LedgerRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.LedgerEntry, error) {
	return r.list(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE order_id = ?`, orderID)
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	var rows []ledgerRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	list := make([]*entity.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// UpdateStatus cambia el estado de un asiento abierto.
func (r *LedgerRepo) UpdateStatus(ctx context.Context, id, status string, paidAt *time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE ledger_entries SET status = ?, paid_at = ? WHERE id = ? AND status = ?`,
		status, nullTime(paidAt), id, entity.LedgerOpen)
	if err != nil {
		return fmt.Errorf("update ledger status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConflict
	}
	return nil
}

// SumOpen suma en Go los importes abiertos: en SQLite son TEXT.
func (r *LedgerRepo) SumOpen(ctx context.Context, counterpartID, direction string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := sqlx.SelectContext(ctx, r.q, &amounts, `
		SELECT amount FROM ledger_entries WHERE counterpart_id = ? AND direction = ? AND status = ?`,
		counterpartID, direction, entity.LedgerOpen)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum open entries: %w", err)
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}
