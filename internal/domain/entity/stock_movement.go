package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de inventario.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement registra un cambio de stock con la foto de precios del momento.
type StockMovement struct {
	ID            string
	ProductID     string
	Direction     string // in, out
	Quantity      decimal.Decimal
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	CounterpartID *string
	OrderID       *string
	OperatorID    *string
	Note          string
	CreatedAt     time.Time
}
