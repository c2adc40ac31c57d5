package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSearchRequest query de GET /api/products.
type ProductSearchRequest struct {
	Term         string `query:"q"`
	BelowMinimum bool   `query:"below_min"`
	Limit        int    `query:"limit"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"price"`
	Stock        decimal.Decimal `json:"stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	BelowMinimum bool            `json:"below_minimum"`
	Active       bool            `json:"active"`
	SupplierID   *string         `json:"supplier_id,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PartyResponse salida de una contraparte.
type PartyResponse struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	PersonType  string           `json:"person_type"`
	LegalName   string           `json:"legal_name"`
	TradeName   string           `json:"trade_name,omitempty"`
	TaxID       string           `json:"tax_id,omitempty"`
	Email       string           `json:"email,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Categories  string           `json:"categories"`
	Blocked     bool             `json:"blocked"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
}

// CreateProductRequest cuerpo de POST /api/products. Costo y stock nacen en cero.
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MinStock    decimal.Decimal `json:"min_stock"`
	SupplierID  *string         `json:"supplier_id"`
}

// UpdateProductRequest cuerpo de PUT /api/products/:id; los campos ausentes no cambian.
type UpdateProductRequest struct {
	Code        *string          `json:"code"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Active      *bool            `json:"active"`
	SupplierID  *string          `json:"supplier_id"` // "" quita el proveedor
}

// CreatePartyRequest cuerpo de POST /api/parties.
type CreatePartyRequest struct {
	PersonType  string           `json:"person_type"` // natural | legal
	LegalName   string           `json:"legal_name"`
	TradeName   string           `json:"trade_name"`
	TaxID       string           `json:"tax_id"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Categories  string           `json:"categories"` // separadas por comas, acepta alias
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// UpdatePartyRequest cuerpo de PUT /api/parties/:id; los campos ausentes no cambian.
type UpdatePartyRequest struct {
	PersonType  *string          `json:"person_type"`
	LegalName   *string          `json:"legal_name"`
	TradeName   *string          `json:"trade_name"`
	TaxID       *string          `json:"tax_id"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	Categories  *string          `json:"categories"`
	Blocked     *bool            `json:"blocked"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}
