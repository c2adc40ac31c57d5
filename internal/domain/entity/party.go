package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/pkg/textnorm"
)

// PersonType distingue persona física de jurídica.
type PersonType string

const (
	PersonNatural PersonType = "natural"
	PersonLegal   PersonType = "legal"
)

// Category clasifica el rol comercial de una entidad.
type Category string

const (
	CategoryCustomer       Category = "CUSTOMER"
	CategorySupplier       Category = "SUPPLIER"
	CategoryCarrier        Category = "CARRIER"
	CategoryRepresentative Category = "REPRESENTATIVE"
)

var categoryOrder = []Category{CategoryCustomer, CategorySupplier, CategoryCarrier, CategoryRepresentative}

// alias aceptados al leer datos heredados (se comparan sin tildes y en mayúsculas).
var categoryAliases = map[string]Category{
	"CUSTOMER":       CategoryCustomer,
	"CLIENTE":        CategoryCustomer,
	"SUPPLIER":       CategorySupplier,
	"FORNECEDOR":     CategorySupplier,
	"PROVEEDOR":      CategorySupplier,
	"CARRIER":        CategoryCarrier,
	"TRANSPORTADORA": CategoryCarrier,
	"REPRESENTATIVE": CategoryRepresentative,
	"REPRESENTANTE":  CategoryRepresentative,
}

// CategorySet es un conjunto de categorías; la pertenencia es exacta.
type CategorySet map[Category]struct{}

// NewCategorySet construye un conjunto con las categorías dadas.
func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// ParseCategories interpreta una lista separada por comas.
// Tokens desconocidos se conservan normalizados.
func ParseCategories(raw string) CategorySet {
	s := CategorySet{}
	for _, tok := range strings.Split(raw, ",") {
		t := textnorm.Token(tok)
		if t == "" {
			continue
		}
		if c, ok := categoryAliases[t]; ok {
			s[c] = struct{}{}
			continue
		}
		s[Category(t)] = struct{}{}
	}
	return s
}

// Has indica si la categoría pertenece al conjunto.
func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Empty indica si la entidad no tiene categorías registradas.
func (s CategorySet) Empty() bool { return len(s) == 0 }

// String serializa el conjunto en orden estable: primero las conocidas, luego el resto alfabético.
func (s CategorySet) String() string {
	out := make([]string, 0, len(s))
	for _, c := range categoryOrder {
		if s.Has(c) {
			out = append(out, string(c))
		}
	}
	var extra []string
	for c := range s {
		if _, known := categoryAliases[string(c)]; !known {
			extra = append(extra, string(c))
		}
	}
	sort.Strings(extra)
	return strings.Join(append(out, extra...), ",")
}

// Party es un cliente, proveedor u otra contraparte comercial.
type Party struct {
	ID          string
	PersonType  PersonType
	LegalName   string
	TradeName   string
	TaxID       string
	Email       string
	Phone       string
	Categories  CategorySet
	Blocked     bool
	CreditLimit *decimal.Decimal // nil: se usa el límite por defecto
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName devuelve el nombre comercial, la razón social o un genérico con el id.
func (p *Party) DisplayName() string {
	if n := strings.TrimSpace(p.TradeName); n != "" {
		return n
	}
	if n := strings.TrimSpace(p.LegalName); n != "" {
		return n
	}
	return "Entidad #" + p.ID
}

// IsCustomer trata como cliente a quien no tiene categorías registradas.
func (p *Party) IsCustomer() bool {
	return p.Categories.Empty() || p.Categories.Has(CategoryCustomer)
}
