// migrate aplica o revierte las migraciones embebidas de PostgreSQL.
//
// Uso: go run ./cmd/migrate [up|down|status]
// Sin argumentos ejecuta "up". Lee la conexión de las mismas variables que la API (DB_*, DATABASE_URL).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

func main() {
	cmd := postgres.MigrateUp
	if len(os.Args) > 1 {
		cmd = postgres.Migration(os.Args[1])
	}
	switch cmd {
	case postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus:
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up|down|status)\n", cmd)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, cmd, log); err != nil {
		log.Error().Err(err).Str("cmd", string(cmd)).Msg("migración fallida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("cmd", string(cmd)).Msg("migración completada")
}
