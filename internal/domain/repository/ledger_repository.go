package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia para cuentas por cobrar y por pagar.
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	List(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.LedgerEntry, error)
	// UpdateStatus cambia el estado solo si el asiento sigue abierto; si no, domain.ErrConflict.
	UpdateStatus(ctx context.Context, id, status string, paidAt *time.Time) error
	// SumOpen suma los asientos abiertos de la contraparte en la dirección dada.
	SumOpen(ctx context.Context, counterpartID, direction string) (decimal.Decimal, error)
}
