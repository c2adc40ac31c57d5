package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
	"github.com/jhoicas/sistema-comercial/pkg/textnorm"
)

// PartyUseCase alta y edición de clientes y proveedores.
type PartyUseCase struct {
	repo repository.PartyRepository
	log  *logger.Logger
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(repo repository.PartyRepository, log *logger.Logger) *PartyUseCase {
	return &PartyUseCase{repo: repo, log: log.Component("catalog")}
}

// ParsePersonType interpreta natural/legal (también física/jurídica). Vacío es natural.
func ParsePersonType(s string) (entity.PersonType, error) {
	switch textnorm.Fold(strings.TrimSpace(s)) {
	case "", "natural", "fisica":
		return entity.PersonNatural, nil
	case "legal", "juridica":
		return entity.PersonLegal, nil
	}
	return "", fmt.Errorf("%w: tipo de persona %q", domain.ErrInvalidInput, s)
}

// Create da de alta una entidad. Las categorías pasan por entity.ParseCategories.
func (uc *PartyUseCase) Create(ctx context.Context, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	personType, err := ParsePersonType(in.PersonType)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	party := &entity.Party{
		ID:          uuid.New().String(),
		PersonType:  personType,
		LegalName:   strings.TrimSpace(in.LegalName),
		TradeName:   strings.TrimSpace(in.TradeName),
		TaxID:       strings.TrimSpace(in.TaxID),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Categories:  entity.ParseCategories(in.Categories),
		CreditLimit: in.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.check(ctx, party); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, party); err != nil {
		return nil, err
	}
	uc.log.Info().Str("party_id", party.ID).Str("categories", party.Categories.String()).Msg("entidad creada")
	out := toPartyResponse(party)
	return &out, nil
}

// Update modifica la entidad; blocked permite bloquear o desbloquear.
func (uc *PartyUseCase) Update(ctx context.Context, id string, in dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	party, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, fmt.Errorf("%w: entidad %s", domain.ErrNotFound, id)
	}
	if in.PersonType != nil {
		if party.PersonType, err = ParsePersonType(*in.PersonType); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{in.LegalName, &party.LegalName},
		{in.TradeName, &party.TradeName},
		{in.TaxID, &party.TaxID},
		{in.Email, &party.Email},
		{in.Phone, &party.Phone},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
	if in.Categories != nil {
		party.Categories = entity.ParseCategories(*in.Categories)
	}
	if in.CreditLimit != nil {
		party.CreditLimit = in.CreditLimit
	}
	wasBlocked := party.Blocked
	if in.Blocked != nil {
		party.Blocked = *in.Blocked
	}
	party.UpdatedAt = time.Now()
	if err := uc.check(ctx, party); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, party); err != nil {
		return nil, err
	}
	if wasBlocked != party.Blocked {
		uc.log.Info().Str("party_id", party.ID).Bool("blocked", party.Blocked).Msg("bloqueo de entidad modificado")
	}
	out := toPartyResponse(party)
	return &out, nil
}

func (uc *PartyUseCase) check(ctx context.Context, p *entity.Party) error {
	if p.LegalName == "" {
		return fmt.Errorf("%w: la razón social es obligatoria", domain.ErrInvalidInput)
	}
	if p.CreditLimit != nil && p.CreditLimit.IsNegative() {
		return fmt.Errorf("%w: límite de crédito negativo", domain.ErrInvalidInput)
	}
	if p.TaxID == "" {
		return nil
	}
	existing, err := uc.repo.GetByTaxID(ctx, p.TaxID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != p.ID {
		return fmt.Errorf("%w: documento %s", domain.ErrDuplicate, p.TaxID)
	}
	return nil
}
