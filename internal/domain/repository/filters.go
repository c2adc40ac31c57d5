package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductFilter restringe el listado de productos.
type ProductFilter struct {
	ActiveOnly   bool
	BelowMinimum bool
	Limit        int
	Offset       int
}

// LedgerFilter restringe el listado de asientos.
type LedgerFilter struct {
	Direction     string
	Status        string
	CounterpartID string
	Limit         int
	Offset        int
}

// OrderFilter restringe el historial de pedidos. From y To comparan la fecha de emisión
// y son inclusivos; los importes comparan el total.
type OrderFilter struct {
	Kind          string
	Status        string
	CounterpartID string
	From          *time.Time
	To            *time.Time
	MinTotal      *decimal.Decimal
	MaxTotal      *decimal.Decimal
	Limit         int
	Offset        int
}

// OrderSummary agrega los pedidos que cumplen un filtro, sin paginar.
type OrderSummary struct {
	Count    int
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}
