package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo con su stock en mano.
// Cost es el último costo de compra (o el promedio ponderado si así se configura).
type Product struct {
	ID          string
	Code        string // código interno o de barras
	Name        string
	Description string
	Cost        decimal.Decimal
	Price       decimal.Decimal // precio de venta de lista
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	Active      bool
	SupplierID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinimum indica si el stock actual está por debajo del mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.Stock.LessThan(p.MinStock)
}
