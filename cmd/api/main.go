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

	"github.com/mesafacil/pos-api/internal/application/auth"
	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/application/usecase"
	inframail "github.com/mesafacil/pos-api/internal/infrastructure/mail"
	infrapdf "github.com/mesafacil/pos-api/internal/infrastructure/pdf"
	"github.com/mesafacil/pos-api/internal/infrastructure/postgres"
	infrastorage "github.com/mesafacil/pos-api/internal/infrastructure/storage"
	infrasunat "github.com/mesafacil/pos-api/internal/infrastructure/sunat"
	httpRouter "github.com/mesafacil/pos-api/internal/interfaces/http"
	"github.com/mesafacil/pos-api/pkg/config"
	"github.com/mesafacil/pos-api/pkg/logger"
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	fiscalRepo := postgres.NewFiscalRegistrationRepository(pool)
	comprobanteRepo := postgres.NewComprobanteRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	renderer := infrapdf.NewMarotoRenderer()
	store := infrastorage.NewOSStore(cfg.Docs.ArtifactsDir)
	mailer := inframail.NewGomailSender(cfg.Mail)
	xmlBuilder := infrasunat.NewSummaryBuilder()

	comprobanteUC := fiscal.NewComprobanteUseCase(
		txRunner, companyRepo, fiscalRepo, comprobanteRepo, paymentRepo,
		renderer, store, mailer, xmlBuilder,
	)
	companyUC := usecase.NewCompanyUseCase(companyRepo, fiscalRepo)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // los PDF pueden tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MesaFácil POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     companyUC,
		PaymentUC:     paymentUC,
		ComprobanteUC: comprobanteUC,
		JWTSecret:     cfg.JWT.Secret,
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
