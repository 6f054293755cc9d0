// migrate aplica las migraciones SQL embebidas que falten en la base configurada.
//
// Uso: go run ./cmd/migrate
package main

import (
	"context"
	"time"

	"github.com/jhoicas/panaderia-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/panaderia-stock/pkg/config"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Msg("base de datos al día")
}
