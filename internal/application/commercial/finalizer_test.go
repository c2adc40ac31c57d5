package commercial_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-comercial/internal/application/catalog"
	"github.com/jhoicas/sistema-comercial/internal/application/commercial"
	"github.com/jhoicas/sistema-comercial/internal/application/finance"
	"github.com/jhoicas/sistema-comercial/internal/application/inventory"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	domaininv "github.com/jhoicas/sistema-comercial/internal/domain/inventory"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno sobre SQLite en memoria
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	db          *sqlx.DB
	repos       repository.UnitOfWork
	rules       commercial.Rules
	transitions [][2]commercial.State
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := &env{db: db, repos: sqlite.NewUnitOfWork(db), rules: commercial.DefaultRules()}

	operators := sqlite.NewOperatorRepository(db)
	for _, op := range []*entity.Operator{
		{ID: "vendedor", Login: "ANA", Name: "Ana", PasswordHash: "x", Role: entity.RoleSales, Active: true},
		{ID: "comprador", Login: "BETO", Name: "Beto", PasswordHash: "x", Role: entity.RolePurchasing, Active: true},
	} {
		op.CreatedAt, op.UpdatedAt = today, today
		require.NoError(t, operators.Create(ctx, op))
	}
	for _, p := range []*entity.Party{
		{ID: "cli", PersonType: entity.PersonNatural, LegalName: "Cliente Uno", Categories: entity.NewCategorySet(entity.CategoryCustomer)},
		{ID: "moroso", PersonType: entity.PersonNatural, LegalName: "Cliente Moroso", Blocked: true},
		{ID: "prov", PersonType: entity.PersonLegal, LegalName: "Proveedor S.A.", Categories: entity.NewCategorySet(entity.CategorySupplier)},
	} {
		p.CreatedAt, p.UpdatedAt = today, today
		require.NoError(t, e.repos.Parties.Create(ctx, p))
	}
	for _, p := range []*entity.Product{
		{ID: "arroz", Code: "ARZ", Name: "Arroz 5kg", Cost: dec("10"), Price: dec("15"), Stock: dec("100"), MinStock: dec("5"), Active: true},
		{ID: "leite", Code: "LEI", Name: "Leite integral 1L", Cost: dec("3"), Price: dec("5"), Stock: dec("50"), MinStock: dec("10"), Active: true},
		{ID: "tv", Code: "TV", Name: "Televisor", Cost: dec("100"), Price: dec("200"), Stock: dec("100"), MinStock: dec("0"), Active: true},
	} {
		p.CreatedAt, p.UpdatedAt = today, today
		require.NoError(t, e.repos.Products.Create(ctx, p))
	}
	return e
}

func (e *env) finalizer() *commercial.Finalizer {
	return buildFinalizer(e.db, e.rules).Observe(func(_ entity.OrderKind, from, to commercial.State) {
		e.transitions = append(e.transitions, [2]commercial.State{from, to})
	})
}

// buildFinalizer arma validador y finalizador sobre la base dada, con el reloj fijo en today.
func buildFinalizer(db *sqlx.DB, rules commercial.Rules) *commercial.Finalizer {
	return buildFinalizerWith(db, rules, sqlite.NewTxRunner(db))
}

func buildFinalizerWith(db *sqlx.DB, rules commercial.Rules, runner commercial.TxRunner) *commercial.Finalizer {
	repos := sqlite.NewUnitOfWork(db)
	validator := commercial.NewValidator(commercial.Lookups{
		Products:    catalog.NewCatalogLookup(repos.Products),
		Parties:     catalog.NewPartyLookup(repos.Parties),
		Operators:   catalog.NewOperatorLookup(sqlite.NewOperatorRepository(db)),
		Receivables: finance.NewLedgerUseCase(repos.Ledger, logger.Nop()),
	}, rules).WithClock(func() time.Time { return today })

	return commercial.NewFinalizer(runner, validator, inventory.NewStockLedger(), rules, logger.Nop()).
		WithClock(func() time.Time { return today })
}

func (e *env) stock(t *testing.T, id string) string {
	t.Helper()
	p, err := e.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock.String()
}

func (e *env) rows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

// brokenLedgerRunner envuelve el runner real y hace fallar la escritura de asientos.
type brokenLedgerRunner struct {
	inner commercial.TxRunner
}

var errLedgerDown = errors.New("ledger no disponible")

type brokenLedger struct {
	repository.LedgerRepository
}

func (brokenLedger) Create(context.Context, *entity.LedgerEntry) error { return errLedgerDown }

func (r brokenLedgerRunner) Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return r.inner.Run(ctx, func(uow repository.UnitOfWork) error {
		uow.Ledger = brokenLedger{uow.Ledger}
		return fn(uow)
	})
}

func (e *env) ledgerCount(t *testing.T) int {
	t.Helper()
	list, err := e.repos.Ledger.List(context.Background(), repository.LedgerFilter{})
	require.NoError(t, err)
	return len(list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_Venta_PersisteTodo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	d := draft(t, strPtr("cli"), "vendedor", line("arroz", "2", "15"), line("leite", "3", "5"))
	d.PaymentMethod = "boleto"

	o, err := e.finalizer().Finalize(ctx, d, entity.OrderSale)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderSale, o.Kind)
	assert.Equal(t, "45", o.Total.String())
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "98", e.stock(t, "arroz"))
	assert.Equal(t, "47", e.stock(t, "leite"))

	stored, err := e.repos.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "Arroz 5kg", stored.Items[0].ProductName)
	assert.Equal(t, 1, stored.Items[0].LineNo)

	movs, err := e.repos.Movements.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, movs, len(o.Items), "un movimiento por ítem")
	for _, m := range movs {
		assert.Equal(t, entity.MovementOut, m.Direction)
		assert.Equal(t, "Venta #"+o.ID, m.Note)
		assert.True(t, m.StockAfter.Equal(m.StockBefore.Sub(m.Quantity)))
	}

	entries, err := e.repos.Ledger.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1, "un único asiento por pedido")
	assert.Equal(t, entity.LedgerReceivable, entries[0].Direction)
	assert.Equal(t, entity.LedgerOpen, entries[0].Status)
	assert.Equal(t, "45", entries[0].Amount.String())
	assert.Equal(t, "Venta pedido #"+o.ID, entries[0].Description)

	assert.Equal(t, [][2]commercial.State{
		{commercial.StateDraft, commercial.StateValidating},
		{commercial.StateValidating, commercial.StateCommitting},
		{commercial.StateCommitting, commercial.StateFinalized},
	}, e.transitions)
}

func TestFinalize_PagoInmediato_AsientoPagado(t *testing.T) {
	e := newEnv(t)
	d := draft(t, strPtr("cli"), "vendedor", line("arroz", "1", "15"))
	d.PaymentMethod = "PIX"

	o, err := e.finalizer().Finalize(context.Background(), d, entity.OrderSale)
	require.NoError(t, err)

	entries, err := e.repos.Ledger.ListByOrder(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerPaid, entries[0].Status)
	require.NotNil(t, entries[0].PaidAt)
}

func TestFinalize_SinDeduplicacion(t *testing.T) {
	e := newEnv(t)
	f := e.finalizer()
	d := draft(t, nil, "vendedor", line("arroz", "5", "15"))

	first, err := f.Finalize(context.Background(), d, entity.OrderSale)
	require.NoError(t, err)
	second, err := f.Finalize(context.Background(), d, entity.OrderSale)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "90", e.stock(t, "arroz"))
	assert.Equal(t, 2, e.ledgerCount(t))
}

func TestFinalize_CreditoAcumulado(t *testing.T) {
	e := newEnv(t)
	f := e.finalizer()
	ctx := context.Background()

	_, err := f.Finalize(ctx, draft(t, strPtr("cli"), "vendedor", line("tv", "24", "200")), entity.OrderSale)
	require.NoError(t, err)

	_, err = f.Finalize(ctx, draft(t, strPtr("cli"), "vendedor", line("tv", "1", "300")), entity.OrderSale)
	var rejected *commercial.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, commercial.CheckCredit, rejected.Result.Reasons[0].Check)

	_, err = f.Finalize(ctx, draft(t, strPtr("cli"), "vendedor", line("tv", "1", "200")), entity.OrderSale)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_Compra_ActualizaStockYCosto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	d := draft(t, strPtr("prov"), "comprador", line("arroz", "10", "12"))
	d.Reference = "4521"

	o, err := e.finalizer().Finalize(ctx, d, entity.OrderPurchase)
	require.NoError(t, err)

	p, err := e.repos.Products.GetByID(ctx, "arroz")
	require.NoError(t, err)
	assert.Equal(t, "110", p.Stock.String())
	assert.Equal(t, "12", p.Cost.String(), "política por defecto: último costo")

	movs, err := e.repos.Movements.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIn, movs[0].Direction)
	assert.Equal(t, "Compra NF 4521", movs[0].Note)
	assert.Equal(t, "12", movs[0].PurchasePrice.String())

	entries, err := e.repos.Ledger.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerPayable, entries[0].Direction)
	assert.Equal(t, "Compra NF 4521 - Pedido #"+o.ID, entries[0].Description)
	assert.Equal(t, entity.LedgerOpen, entries[0].Status)
}

func TestFinalize_Compra_CostoPromedio(t *testing.T) {
	e := newEnv(t)
	e.rules.CostPolicy = domaininv.CostPolicyAverage
	ctx := context.Background()

	_, err := e.finalizer().Finalize(ctx, draft(t, strPtr("prov"), "comprador", line("arroz", "100", "20")), entity.OrderPurchase)
	require.NoError(t, err)

	p, err := e.repos.Products.GetByID(ctx, "arroz")
	require.NoError(t, err)
	assert.Equal(t, "15", p.Cost.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazo y reversión
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_Rechazo_NoEscribeNada(t *testing.T) {
	e := newEnv(t)
	_, err := e.finalizer().Finalize(context.Background(),
		draft(t, strPtr("moroso"), "vendedor", line("arroz", "1", "15")), entity.OrderSale)

	var rejected *commercial.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, entity.OrderSale, rejected.Kind)
	assert.Equal(t, "100", e.stock(t, "arroz"))
	assert.Equal(t, 0, e.ledgerCount(t))
	assert.Equal(t, [][2]commercial.State{
		{commercial.StateDraft, commercial.StateValidating},
		{commercial.StateValidating, commercial.StateRejected},
	}, e.transitions)
}

func TestFinalize_ProductoInexistente_RevierteTodo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	d := draft(t, strPtr("cli"), "vendedor", line("arroz", "3", "15"), line("fantasma", "1", "10"))

	o, err := e.finalizer().Finalize(ctx, d, entity.OrderSale)
	require.Error(t, err)
	assert.Nil(t, o)

	var finalization *commercial.FinalizationError
	require.ErrorAs(t, err, &finalization)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Equal(t, "100", e.stock(t, "arroz"), "la primera línea no debe quedar aplicada")
	movs, err := e.repos.Movements.ListByProduct(ctx, "arroz", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
	assert.Equal(t, 0, e.ledgerCount(t))
	assert.Equal(t, commercial.StateRolledBack, e.transitions[len(e.transitions)-1][1])
}

func TestFinalize_FalloDelAsiento_RevierteTodo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	f := buildFinalizerWith(e.db, e.rules, brokenLedgerRunner{inner: sqlite.NewTxRunner(e.db)})
	d := draft(t, strPtr("cli"), "vendedor", line("arroz", "3", "15"), line("leite", "2", "5"))

	o, err := f.Finalize(ctx, d, entity.OrderSale)
	require.Error(t, err)
	assert.Nil(t, o)

	var finalization *commercial.FinalizationError
	require.ErrorAs(t, err, &finalization)
	assert.Equal(t, entity.OrderSale, finalization.Kind)
	assert.ErrorIs(t, err, errLedgerDown)

	assert.Equal(t, 0, e.rows(t, "orders"))
	assert.Equal(t, 0, e.rows(t, "order_items"))
	assert.Equal(t, 0, e.rows(t, "stock_movements"))
	assert.Equal(t, 0, e.rows(t, "ledger_entries"))
	assert.Equal(t, "100", e.stock(t, "arroz"))
	assert.Equal(t, "50", e.stock(t, "leite"))
}

func TestFinalize_ClienteBloqueado_ErrBlockedParty(t *testing.T) {
	e := newEnv(t)
	_, err := e.finalizer().Finalize(context.Background(),
		draft(t, strPtr("moroso"), "vendedor", line("arroz", "1", "15")), entity.OrderSale)

	assert.ErrorIs(t, err, domain.ErrBlockedParty)

	_, err = e.finalizer().Finalize(context.Background(),
		draft(t, strPtr("fantasma"), "vendedor", line("arroz", "1", "15")), entity.OrderSale)
	var rejected *commercial.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.NotErrorIs(t, err, domain.ErrBlockedParty)
}

func TestFinalize_ItemsEnOrdenDelBorrador(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	d := draft(t, nil, "vendedor", line("tv", "1", "200"), line("leite", "1", "5"), line("arroz", "1", "15"))

	o, err := e.finalizer().Finalize(ctx, d, entity.OrderSale)
	require.NoError(t, err)

	stored, err := e.repos.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 3)
	for i, want := range []string{"tv", "leite", "arroz"} {
		assert.Equal(t, want, stored.Items[i].ProductID)
		assert.Equal(t, i+1, stored.Items[i].LineNo)
	}
}

func TestFinalize_TipoInvalido(t *testing.T) {
	e := newEnv(t)
	_, err := e.finalizer().Finalize(context.Background(),
		draft(t, nil, "vendedor", line("arroz", "1", "15")), entity.OrderKind("devolucion"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, e.transitions)
}

func TestFinalize_BorradorNoSeModifica(t *testing.T) {
	e := newEnv(t)
	d := draft(t, nil, "vendedor", line("arroz", "1", "15"))
	before := d.Lines()

	_, err := e.finalizer().Finalize(context.Background(), d, entity.OrderSale)
	require.NoError(t, err)
	assert.Equal(t, before, d.Lines())
}
