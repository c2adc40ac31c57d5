package commercial_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/application/commercial"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/order"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
)

// scenario guarda el estado de un escenario: base en memoria, borrador y resultado.
type scenario struct {
	db      *sqlx.DB
	repos   repository.UnitOfWork
	parties map[string]string
	draft   *order.Draft
	kind    entity.OrderKind
	created *entity.Order
	err     error
}

func (s *scenario) reset(ctx context.Context) error {
	if s.db != nil {
		_ = s.db.Close()
	}
	db, err := sqlite.Open(ctx, ":memory:")
	if err != nil {
		return err
	}
	*s = scenario{db: db, repos: sqlite.NewUnitOfWork(db), parties: map[string]string{}}

	operators := sqlite.NewOperatorRepository(db)
	for _, op := range []*entity.Operator{
		{ID: "vendedor", Login: "ANA", Name: "Ana", PasswordHash: "x", Role: entity.RoleSales, Active: true},
		{ID: "comprador", Login: "BETO", Name: "Beto", PasswordHash: "x", Role: entity.RolePurchasing, Active: true},
	} {
		op.CreatedAt, op.UpdatedAt = today, today
		if err := operators.Create(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

func parseDec(s string) (decimal.Decimal, error) { return decimal.NewFromString(s) }

// ── Dado ───────────────────────────────────────────────────────────────────

func (s *scenario) unProducto(ctx context.Context, name, stock, cost, price string) error {
	st, err := parseDec(stock)
	if err != nil {
		return err
	}
	c, err := parseDec(cost)
	if err != nil {
		return err
	}
	p, err := parseDec(price)
	if err != nil {
		return err
	}
	return s.repos.Products.Create(ctx, &entity.Product{
		ID: name, Code: name, Name: "Producto " + name, Cost: c, Price: p, Stock: st,
		Active: true, CreatedAt: today, UpdatedAt: today,
	})
}

func (s *scenario) createParty(ctx context.Context, name string, blocked bool, cats ...entity.Category) error {
	id := uuid.New().String()
	s.parties[name] = id
	return s.repos.Parties.Create(ctx, &entity.Party{
		ID: id, PersonType: entity.PersonNatural, LegalName: name, Blocked: blocked,
		Categories: entity.NewCategorySet(cats...), CreatedAt: today, UpdatedAt: today,
	})
}

func (s *scenario) unClienteConDeuda(ctx context.Context, name, open string) error {
	if err := s.createParty(ctx, name, false, entity.CategoryCustomer); err != nil {
		return err
	}
	amount, err := parseDec(open)
	if err != nil {
		return err
	}
	id := s.parties[name]
	return s.repos.Ledger.Create(ctx, &entity.LedgerEntry{
		ID: uuid.New().String(), Direction: entity.LedgerReceivable, CounterpartID: &id,
		Amount: amount, Description: "saldo anterior", EmissionDate: today, DueDate: today,
		Status: entity.LedgerOpen, CreatedAt: today,
	})
}

func (s *scenario) unClienteBloqueado(ctx context.Context, name string) error {
	return s.createParty(ctx, name, true, entity.CategoryCustomer)
}

func (s *scenario) unProveedor(ctx context.Context, name string) error {
	return s.createParty(ctx, name, false, entity.CategorySupplier)
}

func (s *scenario) unaVentaDeMostrador() error {
	s.kind = entity.OrderSale
	s.draft = order.NewDraft(nil, today)
	s.draft.OperatorID = strPtr("vendedor")
	return nil
}

func (s *scenario) unaVentaAlCliente(name string) error {
	id, ok := s.parties[name]
	if !ok {
		return fmt.Errorf("cliente %q no definido", name)
	}
	s.kind = entity.OrderSale
	s.draft = order.NewDraft(&id, today)
	s.draft.OperatorID = strPtr("vendedor")
	return nil
}

func (s *scenario) unaCompraAlProveedor(name, ref string) error {
	id, ok := s.parties[name]
	if !ok {
		return fmt.Errorf("proveedor %q no definido", name)
	}
	s.kind = entity.OrderPurchase
	s.draft = order.NewDraft(&id, today)
	s.draft.OperatorID = strPtr("comprador")
	s.draft.Reference = ref
	return nil
}

func (s *scenario) laFormaDePago(method string) error {
	s.draft.PaymentMethod = method
	return nil
}

func (s *scenario) unaLinea(qty, productID, price string) error {
	q, err := parseDec(qty)
	if err != nil {
		return err
	}
	p, err := parseDec(price)
	if err != nil {
		return err
	}
	return s.draft.AddLine(order.Line{ProductID: productID, Quantity: q, UnitPrice: p})
}

func (s *scenario) unaLineaInexistente(qty string) error {
	return s.unaLinea(qty, "inexistente", "1.00")
}

func (s *scenario) unBorradorConSubtotal(subtotal string) error {
	s.draft = order.NewDraft(nil, today)
	return s.unaLinea("1", "X", subtotal)
}

// ── Cuando ─────────────────────────────────────────────────────────────────

func (s *scenario) confirmoElPedido(ctx context.Context) error {
	s.created, s.err = buildFinalizer(s.db, commercial.DefaultRules()).Finalize(ctx, s.draft, s.kind)
	return nil
}

func (s *scenario) aplicoDescuento(pct, value string) error {
	p, err := parseDec(pct)
	if err != nil {
		return err
	}
	v, err := parseDec(value)
	if err != nil {
		return err
	}
	return s.draft.SetDiscount(p, v)
}

// ── Entonces ───────────────────────────────────────────────────────────────

func expectDec(label, got, want string) error {
	g, err := parseDec(got)
	if err != nil {
		return err
	}
	w, err := parseDec(want)
	if err != nil {
		return err
	}
	if !g.Equal(w) {
		return fmt.Errorf("%s: esperado %s, obtenido %s", label, want, got)
	}
	return nil
}

func (s *scenario) confirmadoConTotal(total string) error {
	if s.err != nil {
		return fmt.Errorf("se esperaba confirmación, error: %w", s.err)
	}
	return expectDec("total", s.created.Total.String(), total)
}

func (s *scenario) rechazadoPor(check string) error {
	var rejected *commercial.RejectedError
	if !errors.As(s.err, &rejected) {
		return fmt.Errorf("se esperaba rechazo, obtenido %v", s.err)
	}
	if got := string(rejected.Result.Reasons[0].Check); got != check {
		return fmt.Errorf("rechazo por %q, esperado %q", got, check)
	}
	return nil
}

func (s *scenario) elResultadoEs(outcome string) error {
	var rejected *commercial.RejectedError
	switch outcome {
	case "rechazado":
		if !errors.As(s.err, &rejected) {
			return fmt.Errorf("se esperaba rechazo, obtenido %v", s.err)
		}
	case "confirmado":
		if s.err != nil {
			return fmt.Errorf("se esperaba confirmación, error: %w", s.err)
		}
	default:
		return fmt.Errorf("resultado desconocido %q", outcome)
	}
	return nil
}

func (s *scenario) fallaYSeRevierte() error {
	var finalization *commercial.FinalizationError
	if !errors.As(s.err, &finalization) {
		return fmt.Errorf("se esperaba FinalizationError, obtenido %v", s.err)
	}
	if s.created != nil {
		return fmt.Errorf("no debería devolverse un pedido")
	}
	return nil
}

func (s *scenario) elStockEs(ctx context.Context, id, want string) error {
	p, err := s.repos.Products.GetByID(ctx, id)
	if err != nil || p == nil {
		return fmt.Errorf("producto %s: %v", id, err)
	}
	return expectDec("stock de "+id, p.Stock.String(), want)
}

func (s *scenario) elCostoEs(ctx context.Context, id, want string) error {
	p, err := s.repos.Products.GetByID(ctx, id)
	if err != nil || p == nil {
		return fmt.Errorf("producto %s: %v", id, err)
	}
	return expectDec("costo de "+id, p.Cost.String(), want)
}

func (s *scenario) unMovimiento(ctx context.Context, direction, qty, productID string) error {
	if s.created == nil {
		return fmt.Errorf("no hay pedido confirmado")
	}
	movs, err := s.repos.Movements.ListByOrder(ctx, s.created.ID)
	if err != nil {
		return err
	}
	if len(movs) != len(s.created.Items) {
		return fmt.Errorf("%d movimientos para %d ítems", len(movs), len(s.created.Items))
	}
	want := entity.MovementOut
	if direction == "entrada" {
		want = entity.MovementIn
	}
	for _, m := range movs {
		if m.ProductID == productID && m.Direction == want {
			return expectDec("cantidad", m.Quantity.String(), qty)
		}
	}
	return fmt.Errorf("sin movimiento de %s para %s", direction, productID)
}

func (s *scenario) unUnicoAsiento(ctx context.Context, direction, amount, status string) error {
	if s.created == nil {
		return fmt.Errorf("no hay pedido confirmado")
	}
	entries, err := s.repos.Ledger.ListByOrder(ctx, s.created.ID)
	if err != nil {
		return err
	}
	if len(entries) != 1 {
		return fmt.Errorf("se esperaba un asiento, hay %d", len(entries))
	}
	e := entries[0]
	want := entity.LedgerReceivable
	if direction == "por pagar" {
		want = entity.LedgerPayable
	}
	if e.Direction != want {
		return fmt.Errorf("dirección %s, esperada %s", e.Direction, want)
	}
	if e.Status != status {
		return fmt.Errorf("estado %s, esperado %s", e.Status, status)
	}
	return expectDec("importe", e.Amount.String(), amount)
}

func (s *scenario) nadaRegistrado(ctx context.Context) error {
	for _, table := range []string{"orders", "order_items", "stock_movements"} {
		var n int
		if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+table); err != nil {
			return err
		}
		if n != 0 {
			return fmt.Errorf("%s tiene %d filas", table, n)
		}
	}
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM ledger_entries WHERE order_id IS NOT NULL`); err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("ledger_entries tiene %d asientos de pedidos", n)
	}
	return nil
}

func (s *scenario) descuentoYTotal(discount, total string) error {
	totals := s.draft.Totals()
	if err := expectDec("descuento", totals.Discount.String(), discount); err != nil {
		return err
	}
	return expectDec("total", totals.Total.String(), total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de pasos
// ──────────────────────────────────────────────────────────────────────────────

func InitializeScenario(sc *godog.ScenarioContext) {
	s := &scenario{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.reset(ctx)
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.db != nil {
			_ = s.db.Close()
			s.db = nil
		}
		return ctx, err
	})

	// Dado
	sc.Step(`^un producto "([^"]*)" con stock (\S+), costo (\S+) y precio (\S+)$`, s.unProducto)
	sc.Step(`^un cliente "([^"]*)" con (\S+) en cuentas por cobrar abiertas$`, s.unClienteConDeuda)
	sc.Step(`^un cliente bloqueado "([^"]*)"$`, s.unClienteBloqueado)
	sc.Step(`^un proveedor "([^"]*)"$`, s.unProveedor)
	sc.Step(`^una venta de mostrador$`, s.unaVentaDeMostrador)
	sc.Step(`^una venta al cliente "([^"]*)"$`, s.unaVentaAlCliente)
	sc.Step(`^una compra al proveedor "([^"]*)" con nota fiscal "([^"]*)"$`, s.unaCompraAlProveedor)
	sc.Step(`^la forma de pago "([^"]*)"$`, s.laFormaDePago)
	sc.Step(`^una línea de (\S+) unidades de "([^"]*)" a (\S+)$`, s.unaLinea)
	sc.Step(`^una línea de (\S+) unidades de un producto inexistente$`, s.unaLineaInexistente)
	sc.Step(`^un borrador con subtotal (\S+)$`, s.unBorradorConSubtotal)

	// Cuando
	sc.Step(`^confirmo el pedido$`, s.confirmoElPedido)
	sc.Step(`^aplico (\S+)% de descuento y (\S+) en valor$`, s.aplicoDescuento)

	// Entonces
	sc.Step(`^el pedido queda confirmado con total (\S+)$`, s.confirmadoConTotal)
	sc.Step(`^el pedido es rechazado por "([^"]*)"$`, s.rechazadoPor)
	sc.Step(`^el resultado es "([^"]*)"$`, s.elResultadoEs)
	sc.Step(`^la confirmación falla y se revierte$`, s.fallaYSeRevierte)
	sc.Step(`^el stock de "([^"]*)" es (\S+)$`, s.elStockEs)
	sc.Step(`^el costo de "([^"]*)" es (\S+)$`, s.elCostoEs)
	sc.Step(`^el pedido tiene un movimiento de (entrada|salida) por (\S+) unidades de "([^"]*)"$`, s.unMovimiento)
	sc.Step(`^hay un único asiento (por cobrar|por pagar) de (\S+) con estado "([^"]*)"$`, s.unUnicoAsiento)
	sc.Step(`^no se registró ningún pedido, movimiento ni asiento$`, s.nadaRegistrado)
	sc.Step(`^el descuento efectivo es (\S+) y el total (\S+)$`, s.descuentoYTotal)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
