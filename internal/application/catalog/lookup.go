package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/textnorm"
)

const maxSearchResults = 50

// ProductFilter criterios de búsqueda en el catálogo.
type ProductFilter struct {
	Term         string // coincide con nombre o código, sin tildes ni mayúsculas
	BelowMinimum bool
	Limit        int
}

// CatalogLookup consultas de solo lectura sobre productos.
type CatalogLookup struct {
	productRepo repository.ProductRepository
}

// NewCatalogLookup construye el servicio.
func NewCatalogLookup(productRepo repository.ProductRepository) *CatalogLookup {
	return &CatalogLookup{productRepo: productRepo}
}

// GetProduct devuelve el producto o domain.ErrNotFound.
func (c *CatalogLookup) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// FindActiveProducts lista productos activos ordenados por nombre.
func (c *CatalogLookup) FindActiveProducts(ctx context.Context, f ProductFilter) ([]*entity.Product, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}
	all, err := c.productRepo.List(ctx, repository.ProductFilter{ActiveOnly: true, BelowMinimum: f.BelowMinimum})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, limit)
	for _, p := range all {
		if f.Term != "" && !textnorm.Contains(p.Name, f.Term) && !textnorm.Contains(p.Code, f.Term) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return textnorm.Fold(out[i].Name) < textnorm.Fold(out[j].Name) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Search adapta la consulta HTTP.
func (c *CatalogLookup) Search(ctx context.Context, in dto.ProductSearchRequest) ([]dto.ProductResponse, error) {
	products, err := c.FindActiveProducts(ctx, ProductFilter{Term: in.Term, BelowMinimum: in.BelowMinimum, Limit: in.Limit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Cost:         p.Cost,
		Price:        p.Price,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		BelowMinimum: p.BelowMinimum(),
		Active:       p.Active,
		SupplierID:   p.SupplierID,
		UpdatedAt:    p.UpdatedAt,
	}
}
