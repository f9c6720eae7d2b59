package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/application/usecase"
)

// Pinger comprobación de la base para /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	JobUC       *usecase.JobUseCase
	MaterialUC  *usecase.MaterialUseCase
	SparePartUC *usecase.SparePartUseCase
	UserUC      *usecase.UserUseCase
	Cookie      CookieConfig
	LoginLimit  RateLimitConfig
	DB          Pinger // opcional
	AppName     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", LoginRateLimit(deps.LoginLimit), authHandler.Login)
	authGroup.Post("/register", OptionalAuth(deps.AuthUC, deps.Cookie.Name), authHandler.Register)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	api.Get("/check-session", requireAuth, authHandler.CheckSession)

	// Jobs (protegido). /employees antes de /:id.
	jobHandler := NewJobHandler(deps.JobUC, deps.UserUC)
	jobs := api.Group("/jobs", requireAuth)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/employees", jobHandler.Employees)
	jobs.Post("/", jobHandler.Create)
	jobs.Get("/:id", jobHandler.GetByID)
	jobs.Put("/:id", jobHandler.Update)
	jobs.Delete("/:id", jobHandler.Delete)

	// Materials (protegido)
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials := api.Group("/materials", requireAuth)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)

	// Spare parts (protegido). /summary/monthly antes de /:id.
	sparePartHandler := NewSparePartHandler(deps.SparePartUC)
	parts := api.Group("/spareparts", requireAuth)
	parts.Get("/", sparePartHandler.List)
	parts.Get("/summary/monthly", sparePartHandler.MonthlySummary)
	parts.Post("/", sparePartHandler.Create)
	parts.Get("/:id", sparePartHandler.GetByID)
	parts.Delete("/:id", sparePartHandler.Delete)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.DB.Ping(ctx); err != nil {
				RequestLogger(c).Error().Err(err).Msg("health: ping DB")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.AppName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	}
}
