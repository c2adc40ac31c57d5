package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-comercial/internal/application/catalog"
	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

func strPtr(s string) *string { return &s }

// ── Alta y edición de productos ───────────────────────────────────────────

func TestProductUseCase_Create(t *testing.T) {
	repos := newRepos(t)
	uc := catalog.NewProductUseCase(repos.Products, repos.Parties, logger.Nop())
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{
		Code: " CAF-02 ", Name: "Café moído", Price: decimal.NewFromInt(18), MinStock: decimal.NewFromInt(3), SupplierID: strPtr("b"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "CAF-02", out.Code)
	assert.True(t, out.Stock.IsZero())
	assert.True(t, out.Cost.IsZero())
	assert.True(t, out.BelowMinimum)

	stored, err := repos.Products.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.SupplierID)
	assert.Equal(t, "b", *stored.SupplierID)
}

func TestProductUseCase_Create_Rechazos(t *testing.T) {
	repos := newRepos(t)
	uc := catalog.NewProductUseCase(repos.Products, repos.Parties, logger.Nop())
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateProductRequest
		want error
	}{
		{"sin nombre", dto.CreateProductRequest{Code: "X-1", Name: "  "}, domain.ErrInvalidInput},
		{"precio negativo", dto.CreateProductRequest{Name: "Sal", Price: decimal.NewFromInt(-1)}, domain.ErrInvalidInput},
		{"stock mínimo negativo", dto.CreateProductRequest{Name: "Sal", MinStock: decimal.NewFromInt(-2)}, domain.ErrInvalidInput},
		{"código repetido", dto.CreateProductRequest{Code: "LEI-01", Name: "Leite desnatado"}, domain.ErrDuplicate},
		{"proveedor inexistente", dto.CreateProductRequest{Name: "Sal", SupplierID: strPtr("zzz")}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProductUseCase_Update_NoTocaCostoNiStock(t *testing.T) {
	repos := newRepos(t)
	uc := catalog.NewProductUseCase(repos.Products, repos.Parties, logger.Nop())
	ctx := context.Background()

	price := decimal.RequireFromString("2.35")
	inactive := false
	out, err := uc.Update(ctx, "2", dto.UpdateProductRequest{Price: &price, Active: &inactive, Code: strPtr("LEI-01")})
	require.NoError(t, err)
	assert.True(t, out.Price.Equal(price))
	assert.False(t, out.Active)

	stored, err := repos.Products.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "40", stored.Stock.String())
	assert.Equal(t, "1", stored.Cost.String())
	assert.Equal(t, "Leite integral", stored.Name)
	assert.False(t, stored.Active)

	_, err = uc.Update(ctx, "2", dto.UpdateProductRequest{Code: strPtr("PAO-01")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, "nada", dto.UpdateProductRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Alta y edición de contrapartes ────────────────────────────────────────

func TestPartyUseCase_Create_NormalizaCategorias(t *testing.T) {
	repos := newRepos(t)
	uc := catalog.NewPartyUseCase(repos.Parties, logger.Nop())
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreatePartyRequest{
		PersonType: "Jurídica", LegalName: "Distribuidora Norte", TaxID: "900123",
		Categories: "fornecedor, Cliente,proveedor",
	})
	require.NoError(t, err)
	assert.Equal(t, "legal", out.PersonType)
	assert.Equal(t, "CUSTOMER,SUPPLIER", out.Categories)

	stored, err := repos.Parties.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Categories.Has(entity.CategorySupplier))
	assert.True(t, stored.Categories.Has(entity.CategoryCustomer))

	_, err = uc.Create(ctx, dto.CreatePartyRequest{LegalName: "Otra", TaxID: "900123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreatePartyRequest{LegalName: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreatePartyRequest{LegalName: "X", PersonType: "cooperativa"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartyUseCase_Update_Bloqueo(t *testing.T) {
	repos := newRepos(t)
	uc := catalog.NewPartyUseCase(repos.Parties, logger.Nop())
	ctx := context.Background()

	blocked := true
	limit := decimal.NewFromInt(800)
	out, err := uc.Update(ctx, "b", dto.UpdatePartyRequest{Blocked: &blocked, CreditLimit: &limit, TradeName: strPtr("Atacadão Centro")})
	require.NoError(t, err)
	assert.True(t, out.Blocked)
	assert.Equal(t, "Atacadão Centro", out.DisplayName)

	stored, err := repos.Parties.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.True(t, stored.Blocked)
	require.NotNil(t, stored.CreditLimit)
	assert.True(t, stored.CreditLimit.Equal(limit))
	assert.True(t, stored.Categories.Has(entity.CategorySupplier), "categorías sin cambios")

	negative := decimal.NewFromInt(-1)
	_, err = uc.Update(ctx, "b", dto.UpdatePartyRequest{CreditLimit: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "nada", dto.UpdatePartyRequest{Blocked: &blocked})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
