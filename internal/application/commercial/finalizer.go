package commercial

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sistema-comercial/internal/application/inventory"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/order"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

// State es la etapa de un intento de confirmación.
type State string

const (
	StateDraft      State = "draft"
	StateValidating State = "validating"
	StateRejected   State = "rejected"
	StateCommitting State = "committing"
	StateFinalized  State = "finalized"
	StateRolledBack State = "rolled_back"
)

var transitions = map[State][]State{
	StateDraft:      {StateValidating},
	StateValidating: {StateRejected, StateCommitting},
	StateCommitting: {StateFinalized, StateRolledBack},
}

// TransitionFunc recibe cada cambio de estado de un intento.
type TransitionFunc func(kind entity.OrderKind, from, to State)

type attempt struct {
	kind     entity.OrderKind
	state    State
	observer TransitionFunc
	log      *logger.Logger
}

func (a *attempt) moveTo(to State) {
	allowed := false
	for _, s := range transitions[a.state] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		panic(fmt.Sprintf("commercial: transición inválida %s -> %s", a.state, to))
	}
	a.log.Debug().Str("kind", string(a.kind)).Str("from", string(a.state)).Str("to", string(to)).Msg("transición")
	if a.observer != nil {
		a.observer(a.kind, a.state, to)
	}
	a.state = to
}

// Finalizer valida el borrador y, si pasa, persiste el pedido completo en una sola transacción.
// Cada llamada crea un pedido nuevo; no hay deduplicación.
type Finalizer struct {
	txRunner  TxRunner
	validator *Validator
	ledger    *inventory.StockLedger
	rules     Rules
	log       *logger.Logger
	now       func() time.Time
	observer  TransitionFunc
}

// NewFinalizer construye el caso de uso.
func NewFinalizer(txRunner TxRunner, validator *Validator, ledger *inventory.StockLedger, rules Rules, log *logger.Logger) *Finalizer {
	return &Finalizer{
		txRunner:  txRunner,
		validator: validator,
		ledger:    ledger,
		rules:     rules,
		log:       log.Component("finalizer"),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (fecha de emisión por defecto, pagos inmediatos).
func (f *Finalizer) WithClock(now func() time.Time) *Finalizer {
	f.now = now
	return f
}

// Observe registra un observador de transiciones.
func (f *Finalizer) Observe(fn TransitionFunc) *Finalizer {
	f.observer = fn
	return f
}

// Finalize confirma el borrador como venta o compra.
// Devuelve *RejectedError si la validación falla y *FinalizationError si la transacción se revierte.
func (f *Finalizer) Finalize(ctx context.Context, d *order.Draft, kind entity.OrderKind) (*entity.Order, error) {
	o, _, err := f.FinalizeWithResult(ctx, d, kind)
	return o, err
}

// FinalizeWithResult es Finalize devolviendo además el resultado de la validación (advertencias).
func (f *Finalizer) FinalizeWithResult(ctx context.Context, d *order.Draft, kind entity.OrderKind) (*entity.Order, ValidationResult, error) {
	if kind != entity.OrderSale && kind != entity.OrderPurchase {
		return nil, ValidationResult{}, fmt.Errorf("%w: tipo de pedido %q", domain.ErrInvalidInput, kind)
	}
	a := &attempt{kind: kind, state: StateDraft, observer: f.observer, log: f.log}

	a.moveTo(StateValidating)
	result := f.validator.Validate(ctx, d, kind)
	if !result.Valid() {
		a.moveTo(StateRejected)
		f.log.Info().Str("kind", string(kind)).Str("reason", result.Reasons[0].Message).Msg("pedido rechazado")
		return nil, result, &RejectedError{Kind: kind, Result: result}
	}

	a.moveTo(StateCommitting)
	var created *entity.Order
	err := f.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		var err error
		created, err = f.commit(ctx, uow, d, kind)
		return err
	})
	if err != nil {
		a.moveTo(StateRolledBack)
		f.log.Warn().Err(err).Str("kind", string(kind)).Msg("confirmación revertida")
		return nil, result, &FinalizationError{Kind: kind, Cause: err}
	}
	a.moveTo(StateFinalized)
	f.log.Info().
		Str("order_id", created.ID).
		Str("kind", string(kind)).
		Str("total", created.Total.String()).
		Int("items", len(created.Items)).
		Msg("pedido confirmado")
	return created, result, nil
}

func (f *Finalizer) commit(ctx context.Context, uow repository.UnitOfWork, d *order.Draft, kind entity.OrderKind) (*entity.Order, error) {
	now := f.now()
	emission := d.EmissionDate
	if emission.IsZero() {
		emission = now
	}
	totals := d.Totals()
	o := &entity.Order{
		ID:            uuid.New().String(),
		Kind:          kind,
		CounterpartID: d.CounterpartID,
		OperatorID:    d.OperatorID,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		EmissionDate:  emission,
		Status:        entity.OrderStatusFinalized,
		PaymentMethod: d.PaymentMethod,
		Reference:     d.Reference,
		CreatedAt:     now,
	}
	if err := uow.Orders.Create(ctx, o); err != nil {
		return nil, err
	}

	for i, line := range d.Lines() {
		item, err := f.commitLine(ctx, uow, o, i+1, line, now)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *item)
	}

	if err := uow.Ledger.Create(ctx, f.ledgerEntry(o, now)); err != nil {
		return nil, err
	}
	return o, nil
}

func (f *Finalizer) commitLine(ctx context.Context, uow repository.UnitOfWork, o *entity.Order, lineNo int, line order.Line, now time.Time) (*entity.OrderItem, error) {
	product, err := uow.Products.GetForUpdate(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
	}
	item := &entity.OrderItem{
		ID:          uuid.New().String(),
		OrderID:     o.ID,
		LineNo:      lineNo,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Subtotal:    line.Subtotal(),
		ExpiryDate:  line.ExpiryDate,
	}
	if err := uow.Orders.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	price := line.UnitPrice
	in := inventory.RecordInput{
		ProductID:     product.ID,
		Quantity:      line.Quantity,
		CounterpartID: o.CounterpartID,
		OrderID:       &o.ID,
		OperatorID:    o.OperatorID,
		At:            now,
	}
	if o.Kind == entity.OrderPurchase {
		in.Direction = entity.MovementIn
		in.PurchasePrice = &price
		in.Note = "Compra NF " + o.Reference
	} else {
		in.Direction = entity.MovementOut
		in.SalePrice = &price
		in.Note = "Venta #" + o.ID
	}
	if _, err := f.ledger.Record(ctx, uow, in); err != nil {
		return nil, err
	}

	if o.Kind == entity.OrderPurchase {
		cost := f.rules.CostPolicy.NextCost(product.Stock, product.Cost, line.Quantity, line.UnitPrice)
		if err := uow.Products.UpdateCost(ctx, product.ID, cost); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (f *Finalizer) ledgerEntry(o *entity.Order, now time.Time) *entity.LedgerEntry {
	e := &entity.LedgerEntry{
		ID:            uuid.New().String(),
		CounterpartID: o.CounterpartID,
		OrderID:       &o.ID,
		Amount:        o.Total,
		EmissionDate:  o.EmissionDate,
		DueDate:       o.EmissionDate,
		Status:        entity.LedgerOpen,
		CreatedAt:     now,
	}
	if o.Kind == entity.OrderPurchase {
		e.Direction = entity.LedgerPayable
		e.Description = fmt.Sprintf("Compra NF %s - Pedido #%s", o.Reference, o.ID)
		return e
	}
	e.Direction = entity.LedgerReceivable
	e.Description = "Venta pedido #" + o.ID
	if f.rules.IsInstantPayment(o.PaymentMethod) {
		paid := now
		e.Status = entity.LedgerPaid
		e.PaidAt = &paid
	}
	return e
}
