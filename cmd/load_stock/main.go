// load_stock carga saldos iniciales desde un CSV "sku;location_code;quantity".
// Cada fila se registra como ajuste, así el saldo inicial también queda en el libro.
// Acepta archivos UTF-8 o ISO-8859-1 (exportaciones de hojas de cálculo antiguas).
//
// Uso: go run ./cmd/load_stock saldos.csv [actor]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/panaderia-stock/pkg/config"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: load_stock <archivo.csv> [actor]")
		os.Exit(2)
	}
	path := os.Args[1]
	actor := "load_stock"
	if len(os.Args) > 2 {
		actor = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("leer CSV")
	}
	rows, err := parseRows(raw)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("interpretar CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	adjust := inventory.NewAdjustUseCase(txRunner, inventory.NewLedger(), nil)

	res, err := load(ctx, txRunner, adjust, rows, actor)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar saldos")
	}
	for _, f := range res.Failed {
		log.Warn().Int("line", f.Line).Str("sku", f.SKU).Str("location", f.LocationCode).Err(f.Err).Msg("fila rechazada")
	}
	log.Info().Int("rows", len(rows)).Int("applied", res.Applied).Int("unchanged", res.Unchanged).
		Int("failed", len(res.Failed)).Msg("carga terminada")
	if len(res.Failed) > 0 {
		os.Exit(1)
	}
}
