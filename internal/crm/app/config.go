package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Backend CMS connection.
	CMSBaseURL string        `env:"CMS_BASE_URL,required"` // e.g. https://cms.medialab.example.edu
	CMSTimeout time.Duration `env:"CMS_TIMEOUT" envDefault:"10s"`

	// Backend role identifiers, one UUID per logical role.
	RoleAdminID        string `env:"CMS_ROLE_ADMIN,required"`
	RoleCollaboratorID string `env:"CMS_ROLE_COLLABORATOR,required"`
	RoleClientID       string `env:"CMS_ROLE_CLIENT,required"`

	// Storage key names for the persisted token slots.
	AuthTokenKey   string `env:"AUTH_TOKEN_KEY" envDefault:"medialab_auth_token"`
	AuthRefreshKey string `env:"AUTH_REFRESH_KEY" envDefault:"medialab_refresh_token"`

	DatabaseFile   string        `env:"DATABASE_FILE" envDefault:"medialab.db"`
	CookieName     string        `env:"SESSION_COOKIE" envDefault:"medialab_session"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"1h"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one exists. Missing required values fail startup.
func LoadConfig() (Config, error) {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
