package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/application/inventory"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	domaininv "github.com/jhoicas/sistema-comercial/internal/domain/inventory"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func setup(t *testing.T, policy domaininv.CostPolicy) (*inventory.RegisterMovementUseCase, repository.UnitOfWork) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repos := sqlite.NewUnitOfWork(db)

	now := time.Now()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", Code: "CAF", Name: "Café 500g", Cost: dec("10"), Price: dec("16"),
		Stock: dec("20"), MinStock: dec("5"), Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	uc := inventory.NewRegisterMovementUseCase(sqlite.NewTxRunner(db), repos.Movements, inventory.NewStockLedger(), policy, logger.Nop())
	return uc, repos
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Entrada_ActualizaStockYCosto(t *testing.T) {
	uc, repos := setup(t, domaininv.CostPolicyAverage)
	ctx := context.Background()

	mov, err := uc.RegisterMovement(ctx, "", dto.RegisterMovementRequest{
		ProductID: "p1", Direction: "IN", Quantity: dec("20"), UnitCost: decPtr("14"), Note: "ajuste",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementIn, mov.Direction)
	assert.Equal(t, "20", mov.StockBefore.String())
	assert.Equal(t, "40", mov.StockAfter.String())
	assert.Equal(t, "14", mov.PurchasePrice.String())
	assert.Equal(t, "16", mov.SalePrice.String(), "sin precio informado se toma el vigente")

	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "12", p.Cost.String())
}

func TestRegisterMovement_Salida(t *testing.T) {
	uc, repos := setup(t, domaininv.CostPolicyLast)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, "", dto.RegisterMovementRequest{ProductID: "p1", Direction: "out", Quantity: dec("5")})
	require.NoError(t, err)

	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "15", p.Stock.String())
	assert.Equal(t, "10", p.Cost.String(), "las salidas no tocan el costo")
}

func TestRegisterMovement_SalidaSinStock(t *testing.T) {
	uc, repos := setup(t, domaininv.CostPolicyLast)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, "", dto.RegisterMovementRequest{ProductID: "p1", Direction: "out", Quantity: dec("21")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	movs, err := repos.Movements.ListByProduct(ctx, "p1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRegisterMovement_EntradasInvalidas(t *testing.T) {
	uc, _ := setup(t, domaininv.CostPolicyLast)
	ctx := context.Background()

	cases := []dto.RegisterMovementRequest{
		{ProductID: "", Direction: "in", Quantity: dec("1")},
		{ProductID: "p1", Direction: "in", Quantity: dec("0")},
		{ProductID: "p1", Direction: "in", Quantity: dec("1"), UnitCost: decPtr("-1")},
		{ProductID: "p1", Direction: "transfer", Quantity: dec("1")},
	}
	for _, in := range cases {
		_, err := uc.RegisterMovement(ctx, "", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}

	_, err := uc.RegisterMovement(ctx, "", dto.RegisterMovementRequest{ProductID: "nada", Direction: "in", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByProduct_MasRecientesPrimero(t *testing.T) {
	uc, _ := setup(t, domaininv.CostPolicyLast)
	ctx := context.Background()

	for _, q := range []string{"1", "2", "3"} {
		_, err := uc.RegisterMovement(ctx, "", dto.RegisterMovementRequest{ProductID: "p1", Direction: "in", Quantity: dec(q)})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	list, err := uc.ListByProduct(ctx, "p1", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "3", list[0].Quantity.String())
	assert.Equal(t, "2", list[1].Quantity.String())
}
