package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/pkg/logger"
)

const localLogger = "logger"

// HeaderRequestID cabecera con el id de correlación de la petición.
const HeaderRequestID = fiber.HeaderXRequestID

// RequestLoggerMiddleware guarda un sublogger por petición (request_id, método y ruta) y
// registra una línea al terminar con status, latencia y usuario si hay sesión.
func RequestLoggerMiddleware(base *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(HeaderRequestID, reqID)
		log := base.WithFields(map[string]string{
			"request_id": reqID,
			"method":     c.Method(),
			"path":       c.Path(),
		})
		c.Locals(localLogger, log)

		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta; aquí solo importa el status final
			_ = c.App().Config().ErrorHandler(c, err)
		}

		ev := log.Info()
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev = ev.Int("status", status).
			Dur("latency", time.Since(start))
		if a := GetActor(c); a.Authenticated() {
			ev = ev.Int64("user_id", a.ID)
		}
		ev.Msg("request")
		return nil
	}
}

// RequestLogger devuelve el logger de la petición o uno que descarta todo.
func RequestLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}
