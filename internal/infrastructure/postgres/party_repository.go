package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

const partyColumns = `id, person_type, legal_name, trade_name, tax_id, email, phone, categories, blocked, credit_limit, created_at, updated_at`

// PartyRepo implementación de PartyRepository sobre PostgreSQL.
// Las categorías se guardan como texto separado por comas.
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador.
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

func scanParty(row pgx.Row) (*entity.Party, error) {
	var (
		p          entity.Party
		personType string
		categories string
	)
	err := row.Scan(&p.ID, &personType, &p.LegalName, &p.TradeName, &p.TaxID, &p.Email, &p.Phone,
		&categories, &p.Blocked, &p.CreditLimit, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.PersonType = entity.PersonType(personType)
	p.Categories = entity.ParseCategories(categories)
	return &p, nil
}

// Create persiste una entidad.
func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	query := `INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, p.ID, string(p.PersonType), p.LegalName, p.TradeName, p.TaxID, p.Email,
		p.Phone, p.Categories.String(), p.Blocked, p.CreditLimit, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteError("insert party", err)
	}
	return nil
}

// GetByID obtiene una entidad por ID.
func (r *PartyRepo) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	p, err := scanParty(r.q.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return p, nil
}

// GetByTaxID obtiene una entidad por documento fiscal.
func (r *PartyRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Party, error) {
	p, err := scanParty(r.q.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE tax_id = $1 LIMIT 1`, taxID))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party by tax id: %w", err)
	}
	return p, nil
}

// Update reescribe los datos de la entidad.
func (r *PartyRepo) Update(ctx context.Context, p *entity.Party) error {
	query := `
		UPDATE parties
		SET person_type = $2, legal_name = $3, trade_name = $4, tax_id = $5, email = $6, phone = $7,
			categories = $8, blocked = $9, credit_limit = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, string(p.PersonType), p.LegalName, p.TradeName, p.TaxID, p.Email,
		p.Phone, p.Categories.String(), p.Blocked, p.CreditLimit, p.UpdatedAt)
	if err != nil {
		return mapWriteError("update party", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entidad %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// List devuelve todas las entidades.
func (r *PartyRepo) List(ctx context.Context) ([]*entity.Party, error) {
	rows, err := r.q.Query(ctx, `SELECT `+partyColumns+` FROM parties ORDER BY legal_name`)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
