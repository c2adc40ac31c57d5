package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/sistema-comercial/internal/application/auth"
	"github.com/jhoicas/sistema-comercial/internal/application/catalog"
	"github.com/jhoicas/sistema-comercial/internal/application/commercial"
	"github.com/jhoicas/sistema-comercial/internal/application/finance"
	"github.com/jhoicas/sistema-comercial/internal/application/inventory"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	infrapdf "github.com/jhoicas/sistema-comercial/internal/infrastructure/pdf"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/postgres"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/sistema-comercial/internal/interfaces/http"
	"github.com/jhoicas/sistema-comercial/pkg/config"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

// backend agrupa los repositorios y el runner de transacciones del driver elegido.
type backend struct {
	repos     repository.UnitOfWork
	operators repository.OperatorRepository
	txRunner  commercial.TxRunner
	close     func()
}

func openBackend(ctx context.Context, cfg config.DBConfig) (*backend, error) {
	if cfg.Driver == "sqlite" {
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{
			repos:     sqlite.NewUnitOfWork(db),
			operators: sqlite.NewOperatorRepository(db),
			txRunner:  sqlite.NewTxRunner(db),
			close:     func() { _ = db.Close() },
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &backend{
		repos:     postgres.NewUnitOfWork(pool),
		operators: postgres.NewOperatorRepository(pool),
		txRunner:  postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base de datos")
	}
	defer be.close()

	rules := commercial.RulesFromConfig(cfg.Rules)
	stockLedger := inventory.NewStockLedger()

	productLookup := catalog.NewCatalogLookup(be.repos.Products)
	partyLookup := catalog.NewPartyLookup(be.repos.Parties)
	ledgerUC := finance.NewLedgerUseCase(be.repos.Ledger, log)

	validator := commercial.NewValidator(commercial.Lookups{
		Products:    productLookup,
		Parties:     partyLookup,
		Operators:   catalog.NewOperatorLookup(be.operators),
		Receivables: ledgerUC,
	}, rules)
	finalizer := commercial.NewFinalizer(be.txRunner, validator, stockLedger, rules, log)

	// PDF: comprobante del pedido
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)
	orderUC := commercial.NewOrderUseCase(validator, finalizer, be.repos.Orders, partyLookup, receipts)

	registerMovementUC := inventory.NewRegisterMovementUseCase(be.txRunner, be.repos.Movements, stockLedger, rules.CostPolicy, log)
	authUC := auth.NewAuthUseCase(be.operators, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		Products:         productLookup,
		Parties:          partyLookup,
		ProductUC:        catalog.NewProductUseCase(be.repos.Products, be.repos.Parties, log),
		PartyUC:          catalog.NewPartyUseCase(be.repos.Parties, log),
		OrderUC:          orderUC,
		RegisterMovement: registerMovementUC,
		LedgerUC:         ledgerUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
