package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CostPolicy decide cómo se actualiza el costo de un producto al recibir mercadería.
type CostPolicy string

const (
	CostPolicyLast    CostPolicy = "last"    // sobrescribe con el último costo de compra
	CostPolicyAverage CostPolicy = "average" // promedio ponderado
)

// ParseCostPolicy interpreta el valor de configuración; por defecto "last".
func ParseCostPolicy(s string) CostPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(CostPolicyAverage)) {
		return CostPolicyAverage
	}
	return CostPolicyLast
}

// CostCalculator calcula el costo promedio ponderado.
// nuevo = ((stockPrevio * costoPrevio) + (cantEntrada * costoEntrada)) / (stockPrevio + cantEntrada)
func CostCalculator(stockPrevio, costoPrevio, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockPrevio.IsNegative() {
		stockPrevio = decimal.Zero
	}
	sum := stockPrevio.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockPrevio.Mul(costoPrevio).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}

// NextCost devuelve el costo resultante de una entrada según la política.
func (p CostPolicy) NextCost(stockPrevio, costoPrevio, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if p == CostPolicyAverage {
		return CostCalculator(stockPrevio, costoPrevio, cantEntrada, costoEntrada)
	}
	return costoEntrada
}
