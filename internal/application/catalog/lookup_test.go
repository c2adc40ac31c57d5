package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-comercial/internal/application/catalog"
	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
)

func newRepos(t *testing.T) repository.UnitOfWork {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repos := sqlite.NewUnitOfWork(db)

	now := time.Now()
	products := []struct {
		id, code, name, stock string
		active                bool
	}{
		{"1", "PAO-01", "Pão francês", "2", true},
		{"2", "LEI-01", "Leite integral", "40", true},
		{"3", "ARZ-01", "Arroz agulhinha", "1", false},
		{"4", "FEI-01", "Feijão preto", "25", true},
	}
	for _, p := range products {
		require.NoError(t, repos.Products.Create(ctx, &entity.Product{
			ID: p.id, Code: p.code, Name: p.name, Cost: decimal.NewFromInt(1), Price: decimal.NewFromInt(2),
			Stock: decimal.RequireFromString(p.stock), MinStock: decimal.NewFromInt(5), Active: p.active,
			CreatedAt: now, UpdatedAt: now,
		}))
	}

	parties := []*entity.Party{
		{ID: "a", LegalName: "Sem Categoria"},
		{ID: "b", LegalName: "Atacadão", Categories: entity.NewCategorySet(entity.CategorySupplier)},
		{ID: "c", LegalName: "Transportes Rápidos", Categories: entity.NewCategorySet(entity.CategoryCarrier)},
		{ID: "d", LegalName: "Cliente e Fornecedor", Categories: entity.NewCategorySet(entity.CategoryCustomer, entity.CategorySupplier)},
	}
	for _, p := range parties {
		p.PersonType, p.CreatedAt, p.UpdatedAt = entity.PersonLegal, now, now
		require.NoError(t, repos.Parties.Create(ctx, p))
	}
	return repos
}

// ── Productos ──────────────────────────────────────────────────────────────

func TestFindActiveProducts_SinTildes(t *testing.T) {
	lookup := catalog.NewCatalogLookup(newRepos(t).Products)

	list, err := lookup.FindActiveProducts(context.Background(), catalog.ProductFilter{Term: "pao"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pão francês", list[0].Name)

	list, err = lookup.FindActiveProducts(context.Background(), catalog.ProductFilter{Term: "fei-01"})
	require.NoError(t, err)
	require.Len(t, list, 1, "también busca por código")
}

func TestFindActiveProducts_ExcluyeInactivosYOrdena(t *testing.T) {
	lookup := catalog.NewCatalogLookup(newRepos(t).Products)

	list, err := lookup.FindActiveProducts(context.Background(), catalog.ProductFilter{})
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Feijão preto", "Leite integral", "Pão francês"}, names)
}

func TestSearch_BajoMinimo(t *testing.T) {
	lookup := catalog.NewCatalogLookup(newRepos(t).Products)

	list, err := lookup.Search(context.Background(), dto.ProductSearchRequest{BelowMinimum: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "PAO-01", list[0].Code)
	assert.True(t, list[0].BelowMinimum)
}

func TestGetProduct_NoEncontrado(t *testing.T) {
	lookup := catalog.NewCatalogLookup(newRepos(t).Products)
	_, err := lookup.GetProduct(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Contrapartes ───────────────────────────────────────────────────────────

func TestFindParties_ClientesIncluyeSinCategoria(t *testing.T) {
	lookup := catalog.NewPartyLookup(newRepos(t).Parties)

	list, err := lookup.FindParties(context.Background(), entity.CategoryCustomer)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, p := range list {
		ids[p.ID] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "d": true}, ids)
}

func TestList_AliasDeCategoria(t *testing.T) {
	lookup := catalog.NewPartyLookup(newRepos(t).Parties)

	list, err := lookup.List(context.Background(), "fornecedor")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = lookup.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestList_VariasCategoriasCoincideConCualquiera(t *testing.T) {
	lookup := catalog.NewPartyLookup(newRepos(t).Parties)

	list, err := lookup.List(context.Background(), "transportadora, fornecedor")
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, p := range list {
		ids[p.ID] = true
	}
	assert.Equal(t, map[string]bool{"b": true, "c": true, "d": true}, ids)

	list, err = lookup.List(context.Background(), "cliente,transportadora")
	require.NoError(t, err)
	assert.Len(t, list, 3, "sin categoría, transportadora y cliente-proveedor")
}
