package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea del pedido. ExpiryDate en formato YYYY-MM-DD.
type OrderLineRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ExpiryDate string          `json:"expiry_date,omitempty"`
}

// CreateOrderRequest body de POST /api/orders/sales, /purchases y /validate.
type CreateOrderRequest struct {
	Kind          string             `json:"kind,omitempty"` // solo /validate: sale | purchase
	CounterpartID *string            `json:"counterpart_id,omitempty"`
	EmissionDate  string             `json:"emission_date,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Reference     string             `json:"reference,omitempty"`
	DiscountPct   decimal.Decimal    `json:"discount_pct"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	Items         []OrderLineRequest `json:"items"`
}

// ValidationMessage motivo de rechazo o advertencia.
type ValidationMessage struct {
	Check   string `json:"check"`
	Message string `json:"message"`
}

// ValidationResponse resultado de validar un borrador.
type ValidationResponse struct {
	Valid    bool                `json:"valid"`
	Reasons  []ValidationMessage `json:"reasons"`
	Warnings []ValidationMessage `json:"warnings"`
	Subtotal decimal.Decimal     `json:"subtotal"`
	Discount decimal.Decimal     `json:"discount"`
	Total    decimal.Decimal     `json:"total"`
}

// OrderItemResponse línea de un pedido confirmado.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// OrderResponse pedido confirmado.
type OrderResponse struct {
	ID            string              `json:"id"`
	Kind          string              `json:"kind"`
	CounterpartID *string             `json:"counterpart_id,omitempty"`
	OperatorID    *string             `json:"operator_id,omitempty"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	EmissionDate  time.Time           `json:"emission_date"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	Reference     string              `json:"reference,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	Warnings      []ValidationMessage `json:"warnings,omitempty"`
}

// RejectionResponse cuerpo 422 cuando la validación rechaza el pedido.
type RejectionResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Reasons []ValidationMessage `json:"reasons"`
}

// OrderListRequest query de GET /api/orders. Fechas YYYY-MM-DD, inclusivas.
type OrderListRequest struct {
	Kind          string `query:"kind"`
	Status        string `query:"status"`
	CounterpartID string `query:"counterpart_id"`
	From          string `query:"from"`
	To            string `query:"to"`
	MinTotal      string `query:"min_total"`
	MaxTotal      string `query:"max_total"`
	PageRequest
}

// OrderSummaryResponse totales de todos los pedidos del filtro.
type OrderSummaryResponse struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// OrderListResponse página del historial (sin ítems) con los totales del filtro.
type OrderListResponse struct {
	Orders  []OrderResponse      `json:"orders"`
	Summary OrderSummaryResponse `json:"summary"`
	Page    PageResponse         `json:"page"`
}
