// Package order contiene el borrador de pedido y sus reglas de cálculo.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Line es una línea del borrador.
type Line struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	ExpiryDate  *time.Time
}

// Subtotal es cantidad por precio unitario.
func (l Line) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Totals resume los importes del borrador.
type Totals struct {
	Subtotal            decimal.Decimal
	DiscountFromPercent decimal.Decimal
	DiscountFromValue   decimal.Decimal
	Discount            decimal.Decimal
	Total               decimal.Decimal
}

// Draft es un pedido en construcción. No persiste nada.
type Draft struct {
	CounterpartID *string
	OperatorID    *string
	EmissionDate  time.Time
	PaymentMethod string
	Reference     string

	lines         []Line
	discountPct   decimal.Decimal
	discountValue decimal.Decimal
}

// NewDraft crea un borrador vacío para la contraparte dada (nil: mostrador).
func NewDraft(counterpartID *string, emission time.Time) *Draft {
	return &Draft{CounterpartID: counterpartID, EmissionDate: emission}
}

// Lines devuelve una copia de las líneas.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// AddLine agrega una línea; rechaza cantidades no positivas, precios negativos y productos repetidos.
func (d *Draft) AddLine(l Line) error {
	l.ProductID = strings.TrimSpace(l.ProductID)
	if l.ProductID == "" {
		return fmt.Errorf("%w: producto requerido", domain.ErrInvalidLine)
	}
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidLine)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidLine)
	}
	for _, existing := range d.lines {
		if existing.ProductID == l.ProductID {
			return fmt.Errorf("%w: el producto %s ya está en el pedido", domain.ErrInvalidLine, l.ProductID)
		}
	}
	d.lines = append(d.lines, l)
	return nil
}

// RemoveLine elimina la línea en la posición i.
func (d *Draft) RemoveLine(i int) error {
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("%w: %d", domain.ErrLineIndex, i)
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return nil
}

// SetDiscount fija el descuento porcentual y el descuento en valor.
func (d *Draft) SetDiscount(pct, value decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: porcentaje de descuento fuera de rango", domain.ErrInvalidInput)
	}
	if value.IsNegative() {
		return fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	d.discountPct = pct
	d.discountValue = value
	return nil
}

// DiscountPercent devuelve el porcentaje de descuento capturado.
func (d *Draft) DiscountPercent() decimal.Decimal { return d.discountPct }

// DiscountValue devuelve el descuento en valor capturado.
func (d *Draft) DiscountValue() decimal.Decimal { return d.discountValue }

// Totals recalcula subtotal, descuento efectivo y total.
func (d *Draft) Totals() Totals {
	subtotal := decimal.Zero
	for _, l := range d.lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	fromPct := subtotal.Mul(d.discountPct).Div(hundred).Round(2)
	discount := EffectiveDiscount(subtotal, d.discountPct, d.discountValue)
	return Totals{
		Subtotal:            subtotal,
		DiscountFromPercent: fromPct,
		DiscountFromValue:   d.discountValue,
		Discount:            discount,
		Total:               subtotal.Sub(discount),
	}
}

// EffectiveDiscount aplica el mayor entre el descuento porcentual y el fijo, sin superar el subtotal.
func EffectiveDiscount(subtotal, pct, value decimal.Decimal) decimal.Decimal {
	fromPct := subtotal.Mul(pct).Div(hundred).Round(2)
	return decimal.Min(decimal.Max(fromPct, value), subtotal)
}
