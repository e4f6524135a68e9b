package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	infrapdf "github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Los pools por tenant se crean perezosamente con la primera petición de
	// cada tenant; el resolver fija el search_path al schema correspondiente.
	resolver := postgres.NewTenantResolver(cfg.DB)
	defer resolver.Close()
	txRunner := postgres.NewTxRunner(resolver)

	alerts := domaininv.AlertConfig{
		LowStockThreshold: decimal.NewFromInt(int64(cfg.Stock.LowStockThreshold)),
		ExpiringSoonDays:  cfg.Stock.ExpiringSoonDays,
	}
	summaryUC := inventory.NewSummaryUseCase(txRunner, alerts)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, summaryUC)
	batchUC := inventory.NewBatchUseCase(txRunner, summaryUC, cfg.Stock.ExpiringSoonDays)
	productUC := inventory.NewProductUseCase(txRunner)

	draftUC := sales.NewDraftUseCase(txRunner)
	settlementUC := sales.NewSettlementUseCase(txRunner, summaryUC)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	receiptUC := sales.NewReceiptPDFUseCase(txRunner, receiptGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		LedgerUC:     ledgerUC,
		BatchUC:      batchUC,
		SummaryUC:    summaryUC,
		DraftUC:      draftUC,
		SettlementUC: settlementUC,
		ReceiptUC:    receiptUC,
		Log:          log,
		JWTSecret:    cfg.JWT.Secret,
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
