package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerListRequest query de GET /api/ledger.
type LedgerListRequest struct {
	Direction     string `query:"direction"`
	Status        string `query:"status"`
	CounterpartID string `query:"counterpart_id"`
	PageRequest
}

// LedgerEntryResponse cuenta por cobrar o por pagar.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	Direction     string          `json:"direction"`
	CounterpartID *string         `json:"counterpart_id,omitempty"`
	OrderID       *string         `json:"order_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	EmissionDate  time.Time       `json:"emission_date"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}
