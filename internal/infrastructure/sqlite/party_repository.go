package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

const partyColumns = `id, person_type, legal_name, trade_name, tax_id, email, phone, categories, blocked, credit_limit, created_at, updated_at`

type partyRow struct {
	ID          string              `db:"id"`
	PersonType  string              `db:"person_type"`
	LegalName   string              `db:"legal_name"`
	TradeName   string              `db:"trade_name"`
	TaxID       string              `db:"tax_id"`
	Email       string              `db:"email"`
	Phone       string              `db:"phone"`
	Categories  string              `db:"categories"`
	Blocked     bool                `db:"blocked"`
	CreditLimit decimal.NullDecimal `db:"credit_limit"`
	CreatedAt   string              `db:"created_at"`
	UpdatedAt   string              `db:"updated_at"`
}

func (r partyRow) toEntity() *entity.Party {
	p := &entity.Party{
		ID:         r.ID,
		PersonType: entity.PersonType(r.PersonType),
		LegalName:  r.LegalName,
		TradeName:  r.TradeName,
		TaxID:      r.TaxID,
		Email:      r.Email,
		Phone:      r.Phone,
		Categories: entity.ParseCategories(r.Categories),
		Blocked:    r.Blocked,
		CreatedAt:  parseTime(r.CreatedAt),
		UpdatedAt:  parseTime(r.UpdatedAt),
	}
	if r.CreditLimit.Valid {
		limit := r.CreditLimit.Decimal
		p.CreditLimit = &limit
	}
	return p
}

// PartyRepo implementación de PartyRepository sobre SQLite.
type PartyRepo struct {
	q sqlx.ExtContext
}

// NewPartyRepository construye el adaptador.
func NewPartyRepository(q sqlx.ExtContext) *PartyRepo {
	return &PartyRepo{q: q}
}

// Create persiste una entidad.
func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	var limit decimal.NullDecimal
	if p.CreditLimit != nil {
		limit = decimal.NewNullDecimal(*p.CreditLimit)
	}
	_, err := r.q.ExecContext(ctx, `INSERT INTO parties (`+partyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.PersonType), p.LegalName, p.TradeName, p.TaxID, p.Email, p.Phone,
		p.Categories.String(), p.Blocked, limit, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return mapWriteError("insert party", err)
	}
	return nil
}

// GetByID obtiene una entidad por ID.
func (r *PartyRepo) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	var row partyRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+partyColumns+` FROM parties WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return row.toEntity(), nil
}

// GetByTaxID obtiene una entidad por documento fiscal.
func (r *PartyRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Party, error) {
	var row partyRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+partyColumns+` FROM parties WHERE tax_id = ? LIMIT 1`, taxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party by tax id: %w", err)
	}
	return row.toEntity(), nil
}

// Update reescribe los datos de la entidad.
func (r *PartyRepo) Update(ctx context.Context, p *entity.Party) error {
	var limit decimal.NullDecimal
	if p.CreditLimit != nil {
		limit = decimal.NewNullDecimal(*p.CreditLimit)
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE parties
		SET person_type = ?, legal_name = ?, trade_name = ?, tax_id = ?, email = ?, phone = ?,
			categories = ?, blocked = ?, credit_limit = ?, updated_at = ?
		WHERE id = ?`,
		string(p.PersonType), p.LegalName, p.TradeName, p.TaxID, p.Email, p.Phone,
		p.Categories.String(), p.Blocked, limit, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return mapWriteError("update party", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: entidad %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// List devuelve todas las entidades.
func (r *PartyRepo) List(ctx context.Context) ([]*entity.Party, error) {
	var rows []partyRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT `+partyColumns+` FROM parties ORDER BY legal_name`); err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	list := make([]*entity.Party, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
