package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/textnorm"
)

// PartyLookup consultas de solo lectura sobre clientes y proveedores.
type PartyLookup struct {
	partyRepo repository.PartyRepository
}

// NewPartyLookup construye el servicio.
func NewPartyLookup(partyRepo repository.PartyRepository) *PartyLookup {
	return &PartyLookup{partyRepo: partyRepo}
}

// GetParty devuelve la contraparte o domain.ErrNotFound.
func (l *PartyLookup) GetParty(ctx context.Context, id string) (*entity.Party, error) {
	p, err := l.partyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: entidad %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// FindParties lista las entidades que tienen alguna de las categorías, ordenadas por nombre visible.
// Sin categorías devuelve todas. Para clientes incluye también a quienes no tienen categoría registrada.
func (l *PartyLookup) FindParties(ctx context.Context, categories ...entity.Category) ([]*entity.Party, error) {
	all, err := l.partyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.Party
	for _, p := range all {
		if len(categories) == 0 || matchesAny(p, categories) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return textnorm.Fold(out[i].DisplayName()) < textnorm.Fold(out[j].DisplayName())
	})
	return out, nil
}

func matchesAny(p *entity.Party, categories []entity.Category) bool {
	for _, c := range categories {
		if c == entity.CategoryCustomer && p.IsCustomer() {
			return true
		}
		if p.Categories.Has(c) {
			return true
		}
	}
	return false
}

// List adapta la consulta HTTP; category acepta alias y varias separadas por comas
// (cliente,fornecedor devuelve clientes y proveedores).
func (l *PartyLookup) List(ctx context.Context, category string) ([]dto.PartyResponse, error) {
	var cats []entity.Category
	for c := range entity.ParseCategories(category) {
		cats = append(cats, c)
	}
	parties, err := l.FindParties(ctx, cats...)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartyResponse, 0, len(parties))
	for _, p := range parties {
		out = append(out, toPartyResponse(p))
	}
	return out, nil
}

func toPartyResponse(p *entity.Party) dto.PartyResponse {
	return dto.PartyResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName(),
		PersonType:  string(p.PersonType),
		LegalName:   p.LegalName,
		TradeName:   p.TradeName,
		TaxID:       p.TaxID,
		Email:       p.Email,
		Phone:       p.Phone,
		Categories:  p.Categories.String(),
		Blocked:     p.Blocked,
		CreditLimit: p.CreditLimit,
	}
}
