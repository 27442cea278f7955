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
	"github.com/tu-usuario/pos-ventas/internal/application/billing"
	"github.com/tu-usuario/pos-ventas/internal/application/credit"
	"github.com/tu-usuario/pos-ventas/internal/application/inventory"
	"github.com/tu-usuario/pos-ventas/internal/application/sales"
	"github.com/tu-usuario/pos-ventas/internal/domain/repository"
	"github.com/tu-usuario/pos-ventas/internal/infrastructure/memory"
	infrapdf "github.com/tu-usuario/pos-ventas/internal/infrastructure/pdf"
	"github.com/tu-usuario/pos-ventas/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pos-ventas/internal/interfaces/http"
	"github.com/tu-usuario/pos-ventas/pkg/config"
	"github.com/tu-usuario/pos-ventas/pkg/logger"
)

// txRunner une los puertos TxRunner de todos los casos de uso.
type txRunner interface {
	Run(ctx context.Context, fn func(r *repository.Repos) error) error
}

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

	ctx := context.Background()

	// Persistencia: PostgreSQL si hay DSN; si no, modo memoria (solo dev).
	var (
		runner txRunner
		repos  *repository.Repos
	)
	if dsn := cfg.DB.ConnectionString(); dsn != "" {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		runner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
		log.Info().Msg("persistencia: PostgreSQL")
	} else {
		if cfg.App.Env != "development" {
			log.Fatal().Msg("DATABASE_URL o DB_HOST requerido fuera de development")
		}
		store := memory.New()
		runner = memory.NewTxRunner(store)
		repos = store.Repos()
		log.Warn().Msg("persistencia: memoria (los datos se pierden al apagar)")
	}

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		if cfg.App.Env != "development" {
			log.Fatal().Msg("JWT_SECRET requerido fuera de development")
		}
		jwtSecret = "dev-secret"
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}

	movementUC := inventory.NewMovementUseCase(runner)
	productUC := inventory.NewProductUseCase(repos.Products, repos.Movements)
	ledgerUC := credit.NewLedgerUseCase(runner, repos.CreditPayments)
	customerUC := credit.NewCustomerUseCase(repos.Customers)
	saleUC := sales.NewCreateSaleUseCase(runner, movementUC, ledgerUC, repos.Sales)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(runner, repos.Invoices, repos.Sales, billing.FiscalConfig{
		PointOfSale:  cfg.Fiscal.PointOfSale,
		StandardRate: cfg.Fiscal.StandardRate,
	})

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(
		cfg.Fiscal.BusinessName,
		cfg.Fiscal.BusinessTaxID,
		cfg.Fiscal.BusinessAddress,
	)
	invoicePDFUC := billing.NewPDFUseCase(repos.Invoices, repos.Sales, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "POS Ventas API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		MovementUC:    movementUC,
		SaleUC:        saleUC,
		CustomerUC:    customerUC,
		LedgerUC:      ledgerUC,
		CreateInvoice: createInvoiceUC,
		InvoicePDF:    invoicePDFUC,
		JWTSecret:     jwtSecret,
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
