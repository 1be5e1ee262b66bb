package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Facturacion-api/docs"
	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	infrapdf "github.com/jhoicas/Facturacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Facturacion-api/internal/infrastructure/redis"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/ubl"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// @title                       Facturación API
// @version                     1.0
// @description                 Clientes, facturas (BORRADOR → EMITIDA → PAGADA / ANULADA), PDF, XML UBL y exportación Excel.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, postgres.MigrateUp, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Limitador de login: Redis si está configurado, si no sin límite.
	var limiter auth.LoginLimiter = auth.NoopLimiter{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		limiter = infraredis.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, time.Duration(cfg.Login.WindowMinutes)*time.Minute)
		log.Info().Str("addr", cfg.Redis.Addr).Int("max_attempts", cfg.Login.MaxAttempts).Msg("limitador de login con Redis")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: login sin límite de intentos")
	}

	txRunner := postgres.NewTxRunner(pool)
	clientUC := billing.NewClientUseCase(txRunner, log)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, log)
	documentUC := billing.NewDocumentUseCase(
		txRunner,
		infrapdf.NewMarotoPDFGenerator(),
		ubl.NewBuilder(),
		xlsx.NewExporter(),
		billing.Issuer{Name: cfg.Company.Name, NIT: cfg.Company.NIT},
		log,
	)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), limiter, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	if cfg.Seed.Enabled {
		if err := authUC.EnsureAdmin(ctx, cfg.Seed.Username, cfg.Seed.Password, cfg.Seed.Email); err != nil {
			log.Fatal().Err(err).Msg("crear usuario administrador")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition, " + httpRouter.HeaderDocumentDigest,
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ClientUC:   clientUC,
		InvoiceUC:  invoiceUC,
		DocumentUC: documentUC,
		DB:         pool,
		AppName:    cfg.App.Name,
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
