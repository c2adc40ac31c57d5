package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/application/finance"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

func setup(t *testing.T) *finance.LedgerUseCase {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repos := sqlite.NewUnitOfWork(db)

	now := time.Now()
	for _, id := range []string{"cli", "prov"} {
		require.NoError(t, repos.Parties.Create(ctx, &entity.Party{ID: id, PersonType: entity.PersonLegal, LegalName: id, CreatedAt: now, UpdatedAt: now}))
	}
	entries := []struct {
		id, direction, party, amount string
	}{
		{"r1", entity.LedgerReceivable, "cli", "300"},
		{"r2", entity.LedgerReceivable, "cli", "200.25"},
		{"p1", entity.LedgerPayable, "prov", "999"},
	}
	for _, e := range entries {
		party := e.party
		require.NoError(t, repos.Ledger.Create(ctx, &entity.LedgerEntry{
			ID: e.id, Direction: e.direction, CounterpartID: &party, Amount: decimal.RequireFromString(e.amount),
			Description: "asiento " + e.id, EmissionDate: now, DueDate: now, Status: entity.LedgerOpen, CreatedAt: now,
		}))
	}
	return finance.NewLedgerUseCase(repos.Ledger, logger.Nop())
}

func TestOpenReceivables_SoloCobrosAbiertos(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	open, err := uc.OpenReceivables(ctx, "cli")
	require.NoError(t, err)
	assert.Equal(t, "500.25", open.String())

	_, err = uc.Settle(ctx, "r1")
	require.NoError(t, err)

	open, err = uc.OpenReceivables(ctx, "cli")
	require.NoError(t, err)
	assert.Equal(t, "200.25", open.String())

	open, err = uc.OpenReceivables(ctx, "prov")
	require.NoError(t, err)
	assert.True(t, open.IsZero(), "las cuentas por pagar no cuentan como crédito")
}

func TestSettleYCancel(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	paid, err := uc.Settle(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, entity.LedgerPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	_, err = uc.Cancel(ctx, "r2")
	assert.ErrorIs(t, err, domain.ErrConflict, "un asiento pagado no se cancela")

	cancelled, err := uc.Cancel(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.LedgerCancelled, cancelled.Status)
	assert.Nil(t, cancelled.PaidAt)

	_, err = uc.Settle(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListEntries_Filtros(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	list, err := uc.ListEntries(ctx, dto.LedgerListRequest{Direction: entity.LedgerReceivable})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = uc.ListEntries(ctx, dto.LedgerListRequest{CounterpartID: "prov"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)
}
