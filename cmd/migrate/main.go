// migrate aplica las migraciones embebidas sobre la base configurada y termina.
//
// Uso: go run ./cmd/migrate
// Lee la misma configuración que la API (DATABASE_URL o DB_HOST, DB_USER, ...).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/infrastructure/postgres"
	"github.com/jhoicas/seller-finance-api/pkg/config"
	"github.com/jhoicas/seller-finance-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migraciones")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("db", cfg.DB.DBName).Msg("migraciones aplicadas")
}
