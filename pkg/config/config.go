package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Modos de sesión soportados por el resolvedor de sesiones.
const (
	SessionModeToken  = "token"
	SessionModeCookie = "cookie"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App          AppConfig
	DB           DBConfig
	JWT          JWTConfig
	HTTP         HTTPConfig
	Session      SessionConfig
	Policy       PolicyConfig
	RateLimit    RateLimitConfig
	Housekeeping HousekeepingConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	SeedOnStart bool
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de los tokens firmados (modo token).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// TTL devuelve la vigencia del token como duración.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.Expiration) * time.Minute
}

// SessionConfig selecciona el backend de sesión y los parámetros de la cookie.
type SessionConfig struct {
	Mode         string // token | cookie
	CookieName   string
	Lifetime     int // minutos, solo modo cookie
	CookieSecure bool
}

// TTL devuelve la vigencia de la sesión de cookie.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.Lifetime) * time.Minute
}

// PolicyConfig interruptores de política de negocio pendientes de definición de producto.
type PolicyConfig struct {
	StrictFieldFilter      bool // true: 400 si el payload trae campos no permitidos
	AllowNegativeInventory bool // true: se permiten cantidades negativas
	RegisterOpen           bool // true: cualquiera puede registrarse como employee
}

// RateLimitConfig límites del endpoint de login (token bucket por IP + email).
type RateLimitConfig struct {
	LoginRequests int
	LoginWindow   time.Duration
	LoginBurst    int
}

// HousekeepingConfig limpieza periódica de tokens revocados vencidos.
type HousekeepingConfig struct {
	Interval time.Duration
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, SESSION_MODE, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "taller-api"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			SeedOnStart: getBool(v, "SEED_ON_START", false),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "taller"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 24*60),
			Issuer:     getString(v, "JWT_ISSUER", "taller-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		},
		Session: SessionConfig{
			Mode:         strings.ToLower(getString(v, "SESSION_MODE", SessionModeToken)),
			CookieName:   getString(v, "SESSION_COOKIE_NAME", "taller_session"),
			Lifetime:     getInt(v, "SESSION_LIFETIME_MINUTES", 12*60),
			CookieSecure: getBool(v, "SESSION_COOKIE_SECURE", false),
		},
		Policy: PolicyConfig{
			StrictFieldFilter:      getBool(v, "STRICT_FIELD_FILTER", false),
			AllowNegativeInventory: getBool(v, "INVENTORY_ALLOW_NEGATIVE", true),
			RegisterOpen:           getBool(v, "REGISTER_OPEN", true),
		},
		RateLimit: RateLimitConfig{
			LoginRequests: getInt(v, "RATELIMIT_LOGIN_REQUESTS", 5),
			LoginWindow:   time.Duration(getInt(v, "RATELIMIT_LOGIN_WINDOW_SEC", 60)) * time.Second,
			LoginBurst:    getInt(v, "RATELIMIT_LOGIN_BURST", 5),
		},
		Housekeeping: HousekeepingConfig{
			Interval: time.Duration(getInt(v, "HOUSEKEEPING_INTERVAL_MINUTES", 60)) * time.Minute,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rechaza combinaciones que dejarían el resolvedor de sesiones inservible.
func (c *Config) Validate() error {
	switch c.Session.Mode {
	case SessionModeToken:
		if c.JWT.Secret == "" {
			return fmt.Errorf("config: JWT_SECRET es obligatorio con SESSION_MODE=token")
		}
		if c.JWT.Expiration <= 0 {
			return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
		}
	case SessionModeCookie:
		if c.Session.CookieName == "" {
			return fmt.Errorf("config: SESSION_COOKIE_NAME no puede estar vacío")
		}
		if c.Session.Lifetime <= 0 {
			return fmt.Errorf("config: SESSION_LIFETIME_MINUTES debe ser positivo")
		}
	default:
		return fmt.Errorf("config: SESSION_MODE desconocido %q (token|cookie)", c.Session.Mode)
	}
	if c.RateLimit.LoginRequests <= 0 || c.RateLimit.LoginWindow <= 0 || c.RateLimit.LoginBurst <= 0 {
		return fmt.Errorf("config: los límites de login deben ser positivos")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
