// seed aplica las migraciones y carga los datos de ejemplo (usuarios, trabajos, materiales y
// repuestos). Opcionalmente importa un inventario XML (UTF-8 o ISO-8859-1).
//
// Uso: go run ./cmd/seed [ruta/inventario.xml]
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/taller-api/internal/application/seed"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	if err := postgres.ApplyMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool)
	res, err := seed.NewSeeder(tx, password.NewBcryptHasher(0), log).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("datos de ejemplo")
	}
	log.Info().
		Int("users", res.Users).
		Int("jobs", res.Jobs).
		Int("materials", res.Materials).
		Int("spare_parts", res.SpareParts).
		Msg("datos de ejemplo creados")

	if len(os.Args) < 2 {
		return
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("abrir XML")
	}
	defer f.Close()

	materials, err := seed.ParseMaterialsXML(f)
	if err != nil {
		log.Fatal().Err(err).Msg("decodificar XML")
	}
	n, err := seed.ImportMaterials(ctx, tx, materials)
	if err != nil {
		log.Fatal().Err(err).Msg("importar materiales")
	}
	log.Info().Int("importados", n).Int("leidos", len(materials)).Msg("inventario importado")
}
