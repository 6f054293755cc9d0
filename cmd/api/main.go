package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/application/production"
	"github.com/jhoicas/panaderia-stock/internal/application/purchasing"
	"github.com/jhoicas/panaderia-stock/internal/application/recipe"
	"github.com/jhoicas/panaderia-stock/internal/application/sales"
	infrakafka "github.com/jhoicas/panaderia-stock/internal/infrastructure/kafka"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/memory"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/panaderia-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/panaderia-stock/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/panaderia-stock/internal/interfaces/http"
	"github.com/jhoicas/panaderia-stock/pkg/config"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

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
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Unidad de trabajo: PostgreSQL en despliegue, memoria para demos locales
	var txRunner ports.TxRunner
	if cfg.App.Store == "memory" {
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		txRunner = memory.NewStore()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	// Notificadores post-commit
	var notifiers ports.Notifiers
	var promMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		promMetrics = metrics.New()
		notifiers = append(notifiers, promMetrics)
	}
	if cfg.Kafka.Enabled() {
		publisher := infrakafka.NewMovementPublisher(
			infrakafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.MovementsTopic), log)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar writer Kafka")
			}
		}()
		notifiers = append(notifiers, publisher)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.MovementsTopic).Msg("publicación de movimientos activa")
	}

	var idempotency ports.IdempotencyStore
	if cfg.Redis.URL != "" {
		client, err := infraredis.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		idempotency = infraredis.NewIdempotencyStore(client, time.Duration(cfg.Redis.IdempotencyTTLMinutes)*time.Minute)
	} else {
		log.Warn().Msg("REDIS_URL vacío: Idempotency-Key no se aplica")
	}

	ledger := inventory.NewLedger()
	pickList := infrapdf.NewPickListGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	if promMetrics != nil {
		app.Use(promMetrics.Middleware(httpRouter.LocalErrorCode))
		app.Get(cfg.Metrics.Path, promMetrics.Handler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if docs, ok := swaggerUI(swaggerFile); ok {
		app.Use(docs)
	} else {
		log.Info().Str("file", swaggerFile).Msg("sin especificación OpenAPI; /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockQuery:   inventory.NewQueryUseCase(txRunner),
		Transfer:     inventory.NewTransferUseCase(txRunner, ledger, notifiers),
		Adjust:       inventory.NewAdjustUseCase(txRunner, ledger, notifiers),
		SalesUC:      sales.NewUseCase(txRunner, ledger, notifiers),
		ProductionUC: production.NewUseCase(txRunner, ledger, recipe.NewResolver(), pickList, notifiers, cfg.Production.Epsilon),
		RecipeUC:     recipe.NewUseCase(txRunner, recipe.NewCostCascade()),
		PurchaseUC:   purchasing.NewUseCase(txRunner, ledger, notifiers),
		JWTSecret:    cfg.JWT.Secret,
		Idempotency:  idempotency,
		Logger:       log,
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
