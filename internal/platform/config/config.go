// Package config builds the application configuration once at startup.
// Values come from the environment (optionally seeded from a .env file) and the
// resulting Config is passed explicitly to every component that needs it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DevSecretKey is the development-only signing secret used when SECRET_KEY is unset.
const DevSecretKey = "your-secret-key-change-this-in-production-use-openssl-rand-hex-32"

var (
	validAlgorithms = []string{"HS256", "HS384", "HS512"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
)

type (
	// Config is the root configuration of the API server.
	Config struct {
		App      AppConfig
		HTTP     HTTPConfig
		DB       DBConfig
		JWT      JWTConfig
		Password PasswordConfig
		Redis    RedisConfig
		Cache    CacheConfig
		CORS     CORSConfig
		Log      LogConfig
	}

	// AppConfig holds process-level metadata.
	AppConfig struct {
		Env     string `env:"APP_ENV" env-default:"development"`
		Name    string `env:"APP_NAME" env-default:"Slam Book API"`
		Version string `env:"APP_VERSION" env-default:"1.0.0"`
	}

	// HTTPConfig holds listener settings and server-side timeouts.
	HTTPConfig struct {
		Port            int           `env:"PORT" env-default:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	}

	// DBConfig holds the relational store connection settings.
	DBConfig struct {
		URL             string        `env:"DATABASE_URL" env-default:"sqlite://slambook.db"`
		ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"60s"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
		RunMigrations   bool          `env:"RUN_MIGRATIONS" env-default:"true"`
	}

	// JWTConfig holds access token signing settings.
	JWTConfig struct {
		Secret     string `env:"SECRET_KEY" env-default:"your-secret-key-change-this-in-production-use-openssl-rand-hex-32"`
		Algorithm  string `env:"ALGORITHM" env-default:"HS256"`
		TTLMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"30"`
	}

	// PasswordConfig holds password hashing settings.
	PasswordConfig struct {
		BcryptCost int `env:"BCRYPT_COST" env-default:"10"`
	}

	// RedisConfig holds the optional Redis connection. An empty Host disables Redis.
	RedisConfig struct {
		Host     string `env:"REDIS_HOST"`
		Port     string `env:"REDIS_PORT" env-default:"6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" env-default:"0"`
	}

	// CacheConfig holds cache expirations.
	CacheConfig struct {
		StatsTTL time.Duration `env:"STATS_CACHE_TTL" env-default:"5m"`
	}

	// CORSConfig lists the origins allowed to call the API from a browser.
	CORSConfig struct {
		Origins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:8080,http://localhost:5173"`
	}

	// LogConfig controls the slog handler installed at startup.
	LogConfig struct {
		Level  string `env:"LOG_LEVEL" env-default:"info"`
		Format string `env:"LOG_FORMAT" env-default:"json"`
	}
)

// Load reads envFile (if it exists) into the process environment, then builds
// and validates a Config from the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Info("env file not found; using system environment variables", "file", envFile)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.JWT.Algorithm = strings.ToUpper(strings.TrimSpace(c.JWT.Algorithm))
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	origins := c.CORS.Origins[:0]
	for _, o := range c.CORS.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.Origins = origins
}

// Validate reports the first setting that would keep the server from running correctly.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.HTTP.Port)
	}
	if c.DB.URL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.JWT.Secret == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	if !slices.Contains(validAlgorithms, c.JWT.Algorithm) {
		return fmt.Errorf("unsupported signing algorithm %q (supported: %s)",
			c.JWT.Algorithm, strings.Join(validAlgorithms, ", "))
	}
	if c.JWT.TTLMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be greater than 0")
	}
	if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Password.BcryptCost)
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if !slices.Contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	return time.Duration(j.TTLMinutes) * time.Minute
}

// UsesDevSecret reports whether the development signing secret is still in use.
func (j JWTConfig) UsesDevSecret() bool {
	return j.Secret == DevSecretKey
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Addr returns the Redis address in host:port form.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// Addr returns the HTTP listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", h.Port)
}

// IsProduction reports whether the server runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from the log settings.
func (l LogConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
