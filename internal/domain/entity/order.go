package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind distingue venta de compra.
type OrderKind string

const (
	OrderSale     OrderKind = "sale"
	OrderPurchase OrderKind = "purchase"
)

// Label devuelve el nombre legible del tipo de pedido.
func (k OrderKind) Label() string {
	if k == OrderPurchase {
		return "compra"
	}
	return "venta"
}

// Estados de un pedido persistido.
const (
	OrderStatusFinalized = "finalized"
	OrderStatusCancelled = "cancelled"
)

// Order es el encabezado de una venta o compra confirmada.
type Order struct {
	ID            string
	Kind          OrderKind
	CounterpartID *string // nil: venta de mostrador
	OperatorID    *string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	EmissionDate  time.Time
	Status        string
	PaymentMethod string
	Reference     string // número de factura del proveedor en compras
	CreatedAt     time.Time
	Items         []OrderItem
}

// OrderItem es una línea del pedido con el nombre del producto congelado.
type OrderItem struct {
	ID          string
	OrderID     string
	LineNo      int // posición de la línea en el borrador, desde 1
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	ExpiryDate  *time.Time
}
