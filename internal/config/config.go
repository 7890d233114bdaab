package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8080/api"`
	BackendToken   string        `env:"BACKEND_TOKEN"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	// DatabaseURL is optional; the audit trail is disabled without it.
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret            string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL             time.Duration `env:"TOKEN_TTL" envDefault:"60m"`
	OperatorUsername     string        `env:"OPERATOR_USERNAME" envDefault:"admin"`
	OperatorPasswordHash string        `env:"OPERATOR_PASSWORD_HASH"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// Load reads an optional .env file from the working directory, then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if strings.TrimSpace(cfg.BackendURL) == "" {
		return Config{}, errors.New("config.Load: BACKEND_URL is empty")
	}
	if cfg.BackendTimeout <= 0 {
		return Config{}, fmt.Errorf("config.Load: BACKEND_TIMEOUT must be positive, got %s", cfg.BackendTimeout)
	}
	return cfg, nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func (c Config) AuditEnabled() bool { return strings.TrimSpace(c.DatabaseURL) != "" }
