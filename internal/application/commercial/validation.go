package commercial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/order"
	"github.com/jhoicas/sistema-comercial/pkg/textnorm"
)

// Check identifica cada regla del pipeline.
type Check string

const (
	CheckStructural  Check = "structural"
	CheckCounterpart Check = "counterpart"
	CheckOperator    Check = "operator"
	CheckCredit      Check = "credit_limit"
	CheckStock       Check = "stock"
	CheckMinPrice    Check = "min_price"
	CheckExpiry      Check = "expiry"
)

// Reason es un motivo de rechazo o una advertencia.
type Reason struct {
	Check   Check  `json:"check"`
	Message string `json:"message"`
	Err     error  `json:"-"` // error de dominio asociado, si lo hay
}

// ValidationResult acumula motivos de rechazo y advertencias no bloqueantes.
type ValidationResult struct {
	Reasons  []Reason
	Warnings []Reason
}

// Valid indica si el pedido puede confirmarse.
func (r ValidationResult) Valid() bool { return len(r.Reasons) == 0 }

func (r *ValidationResult) reject(c Check, format string, args ...any) {
	r.Reasons = append(r.Reasons, Reason{Check: c, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) rejectErr(c Check, err error, format string, args ...any) {
	r.Reasons = append(r.Reasons, Reason{Check: c, Message: fmt.Sprintf(format, args...), Err: err})
}

func (r *ValidationResult) warn(c Check, format string, args ...any) {
	r.Warnings = append(r.Warnings, Reason{Check: c, Message: fmt.Sprintf(format, args...)})
}

// perecederos se detectan por palabra clave en el nombre del producto.
var perishableKeywords = []string{
	"leite", "iogurte", "queijo", "carne", "frango", "peixe", "presunto", "salame",
	"manteiga", "ovo", "fruta", "verdura", "legume", "pao", "bolo", "torta",
}

// IsPerishable indica si el nombre contiene alguna palabra clave de perecedero.
func IsPerishable(name string) bool {
	folded := textnorm.Fold(name)
	for _, kw := range perishableKeywords {
		if textnorm.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// Validator ejecuta las reglas en orden y se detiene en el primer rechazo.
type Validator struct {
	lookups Lookups
	rules   Rules
	now     func() time.Time
}

// NewValidator construye el validador.
func NewValidator(lookups Lookups, rules Rules) *Validator {
	return &Validator{lookups: lookups, rules: rules, now: time.Now}
}

// WithClock reemplaza el reloj usado para comparar vencimientos.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

type checkFunc func(ctx context.Context, d *order.Draft, kind entity.OrderKind, res *ValidationResult)

// Validate evalúa el borrador. Los fallos de consulta se reportan como motivos de rechazo.
func (v *Validator) Validate(ctx context.Context, d *order.Draft, kind entity.OrderKind) ValidationResult {
	if d == nil {
		panic("commercial: Validate con borrador nil")
	}
	checks := []checkFunc{
		v.checkStructure,
		v.checkCounterpart,
		v.checkOperator,
		v.checkCredit,
		v.checkStock,
		v.checkMinPrice,
		v.checkExpiry,
	}
	var res ValidationResult
	for _, check := range checks {
		check(ctx, d, kind, &res)
		if !res.Valid() {
			break
		}
	}
	return res
}

func (v *Validator) checkStructure(_ context.Context, d *order.Draft, _ entity.OrderKind, res *ValidationResult) {
	if len(d.Lines()) == 0 {
		res.reject(CheckStructural, "el pedido debe contener al menos un ítem")
		return
	}
	totals := d.Totals()
	if !totals.Total.IsPositive() {
		res.reject(CheckStructural, "el total del pedido debe ser mayor que cero")
		return
	}
	if d.DiscountValue().GreaterThan(totals.Subtotal) {
		res.reject(CheckStructural, "el descuento (%s) no puede ser mayor que el subtotal (%s)",
			money(d.DiscountValue()), money(totals.Subtotal))
	}
}

func (v *Validator) checkCounterpart(ctx context.Context, d *order.Draft, kind entity.OrderKind, res *ValidationResult) {
	if d.CounterpartID == nil {
		switch {
		case kind == entity.OrderPurchase:
			res.reject(CheckCounterpart, "seleccione un proveedor")
		case v.rules.RequireCustomer:
			res.reject(CheckCounterpart, "cliente obligatorio")
		}
		return
	}
	party, err := v.lookups.Parties.GetParty(ctx, *d.CounterpartID)
	if errors.Is(err, domain.ErrNotFound) {
		res.reject(CheckCounterpart, "%s no encontrado: %s", counterpartLabel(kind), *d.CounterpartID)
		return
	}
	if err != nil {
		res.reject(CheckCounterpart, "error al consultar %s: %v", counterpartLabel(kind), err)
		return
	}
	if party.Blocked {
		res.rejectErr(CheckCounterpart, domain.ErrBlockedParty, "%s %s está bloqueado", counterpartLabel(kind), party.DisplayName())
	}
}

func (v *Validator) checkOperator(ctx context.Context, d *order.Draft, kind entity.OrderKind, res *ValidationResult) {
	if d.OperatorID == nil {
		if v.rules.RequireOperator {
			res.reject(CheckOperator, "operador obligatorio")
		}
		return
	}
	op, err := v.lookups.Operators.GetOperator(ctx, *d.OperatorID)
	if errors.Is(err, domain.ErrNotFound) {
		res.reject(CheckOperator, "operador no encontrado: %s", *d.OperatorID)
		return
	}
	if err != nil {
		res.reject(CheckOperator, "error al consultar operador: %v", err)
		return
	}
	if !op.Authorized(kind) {
		res.reject(CheckOperator, "el operador %s no tiene permiso para registrar %s", op.Login, kind.Label())
	}
}

func (v *Validator) checkCredit(ctx context.Context, d *order.Draft, kind entity.OrderKind, res *ValidationResult) {
	if kind != entity.OrderSale || !v.rules.CheckCredit || d.CounterpartID == nil {
		return
	}
	party, err := v.lookups.Parties.GetParty(ctx, *d.CounterpartID)
	if err != nil {
		res.reject(CheckCredit, "error al consultar cliente: %v", err)
		return
	}
	limit := v.rules.DefaultCreditLimit
	if party.CreditLimit != nil {
		limit = *party.CreditLimit
	}
	open, err := v.lookups.Receivables.OpenReceivables(ctx, party.ID)
	if err != nil {
		res.reject(CheckCredit, "error al consultar cuentas por cobrar: %v", err)
		return
	}
	total := d.Totals().Total
	if open.Add(total).GreaterThan(limit) {
		available := decimal.Max(limit.Sub(open), decimal.Zero)
		res.reject(CheckCredit, "límite de crédito excedido: disponible %s, total del pedido %s",
			money(available), money(total))
	}
}

func (v *Validator) checkStock(ctx context.Context, d *order.Draft, kind entity.OrderKind, res *ValidationResult) {
	if kind != entity.OrderSale || !v.rules.CheckStock {
		return
	}
	for _, line := range d.Lines() {
		p, ok := v.product(ctx, line.ProductID, CheckStock, res)
		if !ok {
			return
		}
		if p == nil {
			continue
		}
		if p.Stock.LessThan(line.Quantity) {
			res.reject(CheckStock, "stock insuficiente para %s: disponible %s, solicitado %s",
				p.Name, p.Stock.String(), line.Quantity.String())
			return
		}
		if p.Stock.Sub(line.Quantity).LessThan(p.MinStock) {
			res.warn(CheckStock, "%s quedará por debajo del stock mínimo (%s)", p.Name, p.MinStock.String())
		}
	}
}

func (v *Validator) checkMinPrice(ctx context.Context, d *order.Draft, kind entity.OrderKind, res *ValidationResult) {
	if kind != entity.OrderSale || !v.rules.CheckMinPrice {
		return
	}
	for _, line := range d.Lines() {
		p, ok := v.product(ctx, line.ProductID, CheckMinPrice, res)
		if !ok {
			return
		}
		if p == nil {
			continue
		}
		minimum := v.rules.MinPrice(p.Cost)
		if line.UnitPrice.LessThan(minimum) {
			res.reject(CheckMinPrice, "precio de %s por debajo del mínimo: mínimo %s, ofrecido %s",
				p.Name, money(minimum), money(line.UnitPrice))
			return
		}
	}
}

func (v *Validator) checkExpiry(ctx context.Context, d *order.Draft, _ entity.OrderKind, res *ValidationResult) {
	if !v.rules.CheckExpiry {
		return
	}
	today := truncateDay(v.now())
	for _, line := range d.Lines() {
		if line.ExpiryDate == nil {
			continue
		}
		p, ok := v.product(ctx, line.ProductID, CheckExpiry, res)
		if !ok {
			return
		}
		if p == nil || !IsPerishable(p.Name) {
			continue
		}
		if truncateDay(*line.ExpiryDate).Before(today) {
			res.reject(CheckExpiry, "%s vencido el %s", p.Name, line.ExpiryDate.Format("02/01/2006"))
			return
		}
	}
}

// product devuelve nil, true si el producto no existe: la referencia se resuelve al confirmar.
func (v *Validator) product(ctx context.Context, id string, c Check, res *ValidationResult) (*entity.Product, bool) {
	p, err := v.lookups.Products.GetProduct(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		res.reject(c, "error al consultar producto %s: %v", id, err)
		return nil, false
	}
	return p, true
}

func counterpartLabel(kind entity.OrderKind) string {
	if kind == entity.OrderPurchase {
		return "proveedor"
	}
	return "cliente"
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
