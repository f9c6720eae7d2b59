package http

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
)

// RateLimitConfig parámetros del token bucket.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// loginLimiter un limitador por clave (IP + email).
type loginLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *loginLimiter) get(key string) *rate.Limiter {
	if l, ok := rl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup descarta limitadores con el bucket lleno (inactivos) cada cinco minutos.
func (rl *loginLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()
	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// LoginRateLimit limita los intentos de login por IP + email. Al exceder responde 429.
func LoginRateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.RequestsPerWindow <= 0 {
		cfg.RequestsPerWindow = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerWindow
	}
	rl := &loginLimiter{
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(c *fiber.Ctx) error {
		key := c.IP() + ":" + loginEmail(c.Body())
		limiter := rl.get(key)
		if limiter.Allow() {
			return c.Next()
		}
		r := limiter.Reserve()
		delay := r.Delay()
		r.Cancel()

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(max(int(delay.Seconds()), 1)))
		RequestLogger(c).Warn().Str("ip", c.IP()).Msg("login: límite de intentos excedido")
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error: domain.ErrRateLimited.Error(),
			Code:  "RATE_LIMITED",
		})
	}
}

func loginEmail(body []byte) string {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(in.Email))
}
