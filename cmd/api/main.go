package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/pgxstore"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/taller-api/docs"
	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/application/seed"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/password"
)

// @title                       Taller API
// @version                     1.0
// @description                 API de gestión de taller: trabajos, inventario de materiales y consumo de repuestos.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
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
		Str("session_mode", cfg.Session.Mode).
		Msg("iniciando aplicación")

	if err := postgres.ApplyMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	hasher := password.NewBcryptHasher(0)

	if cfg.App.SeedOnStart {
		res, err := seed.NewSeeder(txRunner, hasher, log.Named("seed")).Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("datos de ejemplo")
		}
		log.Info().Int("users", res.Users).Int("jobs", res.Jobs).Msg("datos de ejemplo listos")
	}

	// Backend de sesión: JWT + lista de revocación, o cookie con estado en servidor.
	var sessions auth.SessionStore
	switch cfg.Session.Mode {
	case config.SessionModeCookie:
		store := pgxstore.New(pool)
		defer store.StopCleanup()
		sessions = session.NewCookieStore(store, cfg.Session.TTL())
	default:
		revoked := postgres.NewRevokedTokenRepository(pool)
		tokens, err := session.NewTokenStore(session.TokenConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.JWT.TTL(),
		}, revoked)
		if err != nil {
			log.Fatal().Err(err).Msg("sesiones")
		}
		sessions = tokens

		housekeeping := auth.NewHousekeepingService(revoked, log.Named("housekeeping"), cfg.Housekeeping.Interval)
		housekeeping.Start()
		defer housekeeping.Stop()
	}

	updateOpts := usecase.UpdateOptions{StrictFieldFilter: cfg.Policy.StrictFieldFilter}
	authUC := auth.NewAuthUseCase(repos.Users, sessions, hasher, auth.Options{RegisterOpen: cfg.Policy.RegisterOpen})
	jobUC := usecase.NewJobUseCase(repos.Jobs, repos.Users, txRunner, updateOpts)
	materialUC := usecase.NewMaterialUseCase(repos.Materials, txRunner, usecase.MaterialOptions{
		UpdateOptions: updateOpts,
		AllowNegative: cfg.Policy.AllowNegativeInventory,
	})
	sparePartUC := usecase.NewSparePartUseCase(repos.SpareParts)
	userUC := usecase.NewUserUseCase(repos.Users)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLoggerMiddleware(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Taller API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		JobUC:       jobUC,
		MaterialUC:  materialUC,
		SparePartUC: sparePartUC,
		UserUC:      userUC,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		LoginLimit: httpRouter.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.LoginRequests,
			Window:            cfg.RateLimit.LoginWindow,
			Burst:             cfg.RateLimit.LoginBurst,
		},
		DB:      pool,
		AppName: cfg.App.Name,
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
