// seed crea el operador administrador inicial (login ADMIN) si no existe.
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed [-demo]
// Con -demo también carga un catálogo mínimo de productos y contrapartes.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/application/auth"
	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/postgres"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
	"github.com/jhoicas/sistema-comercial/pkg/config"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

const adminLogin = "ADMIN"

func main() {
	demo := flag.Bool("demo", false, "cargar productos y contrapartes de ejemplo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("seed")

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD es requerido")
	}

	ctx := context.Background()
	var (
		repos     repository.UnitOfWork
		operators repository.OperatorRepository
	)
	switch cfg.DB.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.DB.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir SQLite")
		}
		defer db.Close()
		repos, operators = sqlite.NewUnitOfWork(db), sqlite.NewOperatorRepository(db)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema")
		}
		repos, operators = postgres.NewUnitOfWork(pool), postgres.NewOperatorRepository(pool)
	}

	authUC := auth.NewAuthUseCase(operators, auth.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	_, err = authUC.CreateOperator(ctx, dto.CreateOperatorRequest{
		Login:    adminLogin,
		Name:     "Administrador",
		Password: password,
		Role:     string(entity.RoleAdmin),
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("login", adminLogin).Msg("el administrador ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Str("login", adminLogin).Msg("administrador creado")
	}

	if *demo {
		if err := seedDemo(ctx, repos); err != nil {
			log.Fatal().Err(err).Msg("cargar catálogo de ejemplo")
		}
		log.Info().Msg("catálogo de ejemplo cargado")
	}
}

func seedDemo(ctx context.Context, repos repository.UnitOfWork) error {
	existing, err := repos.Products.List(ctx, repository.ProductFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	now := time.Now()
	supplierID := uuid.New().String()
	parties := []*entity.Party{
		{
			ID: supplierID, PersonType: entity.PersonLegal, LegalName: "Distribuidora Central S.A.",
			TradeName: "Dist. Central", Categories: entity.NewCategorySet(entity.CategorySupplier),
		},
		{
			ID: uuid.New().String(), PersonType: entity.PersonNatural, LegalName: "Maria Souza",
			Categories: entity.NewCategorySet(entity.CategoryCustomer),
		},
	}
	for _, p := range parties {
		p.CreatedAt, p.UpdatedAt = now, now
		if err := repos.Parties.Create(ctx, p); err != nil {
			return err
		}
	}

	products := []struct {
		code, name       string
		cost, price, qty string
	}{
		{"ARZ-001", "Arroz 5kg", "18.50", "24.90", "40"},
		{"LEI-001", "Leite integral 1L", "3.80", "5.49", "120"},
		{"PAO-001", "Pao de forma", "4.20", "7.90", "30"},
	}
	for _, it := range products {
		p := &entity.Product{
			ID:         uuid.New().String(),
			Code:       it.code,
			Name:       it.name,
			Cost:       decimal.RequireFromString(it.cost),
			Price:      decimal.RequireFromString(it.price),
			Stock:      decimal.RequireFromString(it.qty),
			MinStock:   decimal.NewFromInt(10),
			Active:     true,
			SupplierID: &supplierID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
