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

	"github.com/jhoicas/textil-api/internal/application/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/internal/domain/repository"
	"github.com/jhoicas/textil-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/textil-api/internal/infrastructure/pdf"
	"github.com/jhoicas/textil-api/internal/infrastructure/postgres"
	"github.com/jhoicas/textil-api/internal/infrastructure/remote"
	httpRouter "github.com/jhoicas/textil-api/internal/interfaces/http"
	"github.com/jhoicas/textil-api/pkg/config"
	"github.com/jhoicas/textil-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL si está configurado; si no, en memoria del proceso.
	var (
		counters repository.CounterRepository
		outcomes repository.PaymentOutcomeRepository
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema de facturación")
		}
		counters = postgres.NewCounterRepository(pool)
		outcomes = postgres.NewPaymentOutcomeRepository(pool)
	} else {
		log.Warn().Msg("sin base de datos: consecutivo y resultados de pagos en memoria")
		counters = memory.NewCounterStore()
		outcomes = memory.NewPaymentOutcomeStore()
	}

	remoteClient, err := remote.NewClient(remote.Config{
		BaseURL:     cfg.Remote.BaseURL,
		APIKey:      cfg.Remote.APIKey,
		Timeout:     cfg.Remote.Timeout,
		ReadRetries: cfg.Remote.ReadRetries,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del backend remoto")
	}

	allocator := billing.NewAllocator(counters, cfg.Billing.CounterKey, log)
	saveUC := billing.NewSaveInvoiceUseCase(allocator, remoteClient, cfg.Billing.SubmitTimeout, log)
	paymentsUC := billing.NewSubmitPaymentsUseCase(remoteClient, outcomes, cfg.Billing.SubmitTimeout, log)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Options{UPIID: cfg.Billing.UPIID})
	pdfUC := billing.NewPDFUseCase(pdfGenerator)

	invoiceHandler := httpRouter.NewInvoiceHandler(allocator, saveUC, paymentsUC, pdfUC, log).
		WithDefaultSeller(entity.BillingParty{
			Name:  cfg.Billing.CompanyName,
			GSTIN: cfg.Billing.CompanyGSTIN,
			State: cfg.Billing.CompanyState,
		})

	// un lote de pagos puede tardar varios timeouts seguidos
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Billing.SubmitTimeout*4 + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Textil Billing API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Invoices:   invoiceHandler,
		PaymentLog: httpRouter.NewPaymentLogHandler(outcomes, log),
		Remote:     remoteClient,
		JWTSecret:  cfg.JWT.Secret,
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
