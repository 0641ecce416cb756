// audit_cleanup borra los registros de auditoría vencidos según la retención de cada tipo de entidad.
//
// Uso: go run ./cmd/audit_cleanup [-days 90] [-dry-run]
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/postgres"
	"github.com/jhoicas/naturalmede-api/pkg/config"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

func main() {
	days := flag.Int("days", 0, "retención en días para todos los tipos (0 = la de cada configuración)")
	dryRun := flag.Bool("dry-run", false, "solo contar, sin borrar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Named("audit_cleanup")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := audit.NewUseCase(postgres.NewStore(pool), nil, log)
	var override *int
	if *days > 0 {
		override = days
	}
	out, err := uc.Cleanup(ctx, override, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("limpieza de auditoría")
	}
	for entityType, n := range out.ByEntity {
		log.Info().Str("entity_type", entityType).Int64("count", n).Msg("registros vencidos")
	}
	log.Info().Bool("dry_run", out.DryRun).Int64("total", out.Total).Msg("limpieza terminada")
}
