package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección del asiento: por cobrar o por pagar.
const (
	LedgerReceivable = "receivable"
	LedgerPayable    = "payable"
)

// Estados del asiento.
const (
	LedgerOpen      = "open"
	LedgerPaid      = "paid"
	LedgerCancelled = "cancelled"
)

// LedgerEntry es la cuenta por cobrar o por pagar generada por un pedido.
type LedgerEntry struct {
	ID            string
	Direction     string
	CounterpartID *string
	OrderID       *string
	Amount        decimal.Decimal
	Description   string
	EmissionDate  time.Time
	DueDate       time.Time
	Status        string
	PaidAt        *time.Time
	CreatedAt     time.Time
}

// IsOpen indica si el asiento aún admite liquidación o anulación.
func (e *LedgerEntry) IsOpen() bool { return e.Status == LedgerOpen }
