package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the storefront processes.
type Config struct {
	App      AppConfig
	API      APIConfig
	Session  SessionConfig
	Routes   RouteConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig locates the storefront REST backend.
type APIConfig struct {
	BaseURL           string
	BasePath          string
	SessionLookupPath string
	CartPath          string
	// DevAddr, Seed and LoginRatePerMinute configure cmd/devapi only.
	DevAddr            string
	Seed               bool
	LoginRatePerMinute int
}

// SessionConfig selects where the session area lives.
type SessionConfig struct {
	// Backend is "memory" or "redis".
	Backend   string
	KeyPrefix string
	Channel   string
}

// RouteConfig holds navigation targets used by the gate and the interceptor.
type RouteConfig struct {
	Login string
	Home  string
	Admin string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PostgresConfig holds DB connection values for the development API.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token parameters for the development API.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("SESSION_BACKEND", "memory"))
	if backend != "memory" && backend != "redis" {
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q: want memory or redis", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "storefront"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL:            strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8081"), "/"),
			BasePath:           normalizePath(getEnv("API_BASE_PATH", "/api")),
			SessionLookupPath:  normalizePath(getEnv("API_SESSION_LOOKUP_PATH", "/auth/me")),
			CartPath:           normalizePath(getEnv("API_CART_PATH", "/cart")),
			DevAddr:            getEnv("DEVAPI_ADDR", "127.0.0.1:8081"),
			Seed:               getEnvAsBool("DEVAPI_SEED", true),
			LoginRatePerMinute: getEnvAsInt("DEVAPI_LOGIN_RATE_PER_MINUTE", 30),
		},
		Session: SessionConfig{
			Backend:   backend,
			KeyPrefix: getEnv("SESSION_KEY_PREFIX", "storefront:"),
			Channel:   getEnv("SESSION_CHANNEL", "storefront:session"),
		},
		Routes: RouteConfig{
			Login: normalizePath(getEnv("ROUTE_LOGIN", "/login")),
			Home:  normalizePath(getEnv("ROUTE_HOME", "/")),
			Admin: normalizePath(getEnv("ROUTE_ADMIN", "/admin")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Endpoint joins the base URL and base path.
func (a APIConfig) Endpoint() string {
	if a.BasePath == "/" {
		return a.BaseURL
	}
	return a.BaseURL + a.BasePath
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
