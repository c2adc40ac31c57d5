package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

// ProductUseCase alta y edición de productos. Cost y Stock se manejan vía movimientos.
type ProductUseCase struct {
	repo    repository.ProductRepository
	parties repository.PartyRepository
	log     *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, parties repository.PartyRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, parties: parties, log: log.Component("catalog")}
}

// Create da de alta un producto activo. Cost y Stock inician en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Cost:        decimal.Zero,
		Price:       in.Price,
		Stock:       decimal.Zero,
		MinStock:    in.MinStock,
		Active:      true,
		SupplierID:  blankToNil(in.SupplierID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.check(ctx, product); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("code", product.Code).Msg("producto creado")
	out := toProductResponse(product)
	return &out, nil
}

// Update modifica los datos de catálogo. No permite modificar Cost ni Stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if in.SupplierID != nil {
		product.SupplierID = blankToNil(in.SupplierID)
	}
	product.UpdatedAt = time.Now()
	if err := uc.check(ctx, product); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	return &out, nil
}

// check valida el producto ya armado: nombre, importes, código único y proveedor existente.
func (uc *ProductUseCase) check(ctx context.Context, p *entity.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: el nombre del producto es obligatorio", domain.ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if p.MinStock.IsNegative() {
		return fmt.Errorf("%w: stock mínimo negativo", domain.ErrInvalidInput)
	}
	if p.Code != "" {
		existing, err := uc.repo.GetByCode(ctx, p.Code)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != p.ID {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, p.Code)
		}
	}
	if p.SupplierID != nil {
		supplier, err := uc.parties.GetByID(ctx, *p.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: proveedor %s no encontrado", domain.ErrInvalidInput, *p.SupplierID)
		}
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
