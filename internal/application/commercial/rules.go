package commercial

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain/inventory"
	"github.com/jhoicas/sistema-comercial/pkg/config"
)

// Rules parámetros de validación y de confirmación de pedidos.
type Rules struct {
	DefaultCreditLimit    decimal.Decimal
	MinMarginPct          decimal.Decimal
	RequireCustomer       bool
	RequireOperator       bool
	CheckCredit           bool
	CheckStock            bool
	CheckMinPrice         bool
	CheckExpiry           bool
	InstantPaymentMethods []string
	CostPolicy            inventory.CostPolicy
}

// DefaultRules devuelve los valores por defecto del sistema.
func DefaultRules() Rules {
	return Rules{
		DefaultCreditLimit:    decimal.RequireFromString("5000.00"),
		MinMarginPct:          decimal.NewFromInt(10),
		RequireOperator:       true,
		CheckCredit:           true,
		CheckStock:            true,
		CheckMinPrice:         true,
		CheckExpiry:           true,
		InstantPaymentMethods: []string{"cash", "pix", "debit", "instant_transfer"},
		CostPolicy:            inventory.CostPolicyLast,
	}
}

// RulesFromConfig traduce la sección de configuración.
func RulesFromConfig(c config.RulesConfig) Rules {
	return Rules{
		DefaultCreditLimit:    c.DefaultCreditLimit,
		MinMarginPct:          c.MinMarginPct,
		RequireCustomer:       c.RequireCustomer,
		RequireOperator:       c.RequireOperator,
		CheckCredit:           c.CheckCredit,
		CheckStock:            c.CheckStock,
		CheckMinPrice:         c.CheckMinPrice,
		CheckExpiry:           c.CheckExpiry,
		InstantPaymentMethods: c.InstantPaymentMethods,
		CostPolicy:            inventory.ParseCostPolicy(c.CostPolicy),
	}
}

// MinPrice es el precio mínimo de venta para un costo dado.
func (r Rules) MinPrice(cost decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(r.MinMarginPct.Div(decimal.NewFromInt(100)))
	return cost.Mul(factor)
}

// IsInstantPayment indica si el medio de pago liquida al momento.
func (r Rules) IsInstantPayment(method string) bool {
	m := strings.TrimSpace(method)
	for _, p := range r.InstantPaymentMethods {
		if strings.EqualFold(p, m) {
			return true
		}
	}
	return false
}
