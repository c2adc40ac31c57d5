package repository

import (
	"context"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// PartyRepository define el puerto de persistencia para clientes y proveedores.
type PartyRepository interface {
	Create(ctx context.Context, party *entity.Party) error
	// GetByID y GetByTaxID devuelven nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Party, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Party, error)
	List(ctx context.Context) ([]*entity.Party, error)
	// Update devuelve domain.ErrNotFound si no existe.
	Update(ctx context.Context, party *entity.Party) error
}
