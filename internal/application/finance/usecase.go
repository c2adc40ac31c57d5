package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

// LedgerUseCase consulta y liquida cuentas por cobrar y por pagar.
type LedgerUseCase struct {
	ledgerRepo repository.LedgerRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(ledgerRepo repository.LedgerRepository, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo, log: log.Component("finance"), now: time.Now}
}

// OpenReceivables suma lo que el cliente aún adeuda.
func (uc *LedgerUseCase) OpenReceivables(ctx context.Context, partyID string) (decimal.Decimal, error) {
	return uc.ledgerRepo.SumOpen(ctx, partyID, entity.LedgerReceivable)
}

// ListEntries lista asientos con filtros opcionales.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, in dto.LedgerListRequest) ([]dto.LedgerEntryResponse, error) {
	in.DefaultPage()
	entries, err := uc.ledgerRepo.List(ctx, repository.LedgerFilter{
		Direction:     in.Direction,
		Status:        in.Status,
		CounterpartID: in.CounterpartID,
		Limit:         in.Limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryResponse(e))
	}
	return out, nil
}

// Settle marca el asiento como pagado. Solo asientos abiertos.
func (uc *LedgerUseCase) Settle(ctx context.Context, id string) (*dto.LedgerEntryResponse, error) {
	paidAt := uc.now()
	return uc.changeStatus(ctx, id, entity.LedgerPaid, &paidAt)
}

// Cancel anula el asiento. Solo asientos abiertos.
func (uc *LedgerUseCase) Cancel(ctx context.Context, id string) (*dto.LedgerEntryResponse, error) {
	return uc.changeStatus(ctx, id, entity.LedgerCancelled, nil)
}

func (uc *LedgerUseCase) changeStatus(ctx context.Context, id, status string, paidAt *time.Time) (*dto.LedgerEntryResponse, error) {
	entry, err := uc.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if !entry.IsOpen() {
		return nil, fmt.Errorf("%w: el asiento está %s", domain.ErrConflict, entry.Status)
	}
	if err := uc.ledgerRepo.UpdateStatus(ctx, id, status, paidAt); err != nil {
		return nil, err
	}
	entry.Status = status
	entry.PaidAt = paidAt
	uc.log.Info().Str("entry_id", id).Str("status", status).Msg("asiento actualizado")
	out := ToEntryResponse(entry)
	return &out, nil
}

// ToEntryResponse mapea la entidad al DTO.
func ToEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:            e.ID,
		Direction:     e.Direction,
		CounterpartID: e.CounterpartID,
		OrderID:       e.OrderID,
		Amount:        e.Amount,
		Description:   e.Description,
		EmissionDate:  e.EmissionDate,
		DueDate:       e.DueDate,
		Status:        e.Status,
		PaidAt:        e.PaidAt,
	}
}
