package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for every Love service. Environment
// variables are parsed from the LOVE_ prefix, e.g. LOVE_POSTGRES_DSN.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP ports, one per service binary
	MomentsPort    int `envconfig:"MOMENTS_PORT" default:"8081"`
	PhotostockPort int `envconfig:"PHOTOSTOCK_PORT" default:"8082"`
	CarouselPort   int `envconfig:"CAROUSEL_PORT" default:"8083"`
	TimerPort      int `envconfig:"TIMER_PORT" default:"8084"`
	TimelineUIPort int `envconfig:"TIMELINE_UI_PORT" default:"8080"`

	// Card store. DBDriver "auto" resolves to sqlite unless a Postgres DSN
	// is configured.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/love.db"`

	// Object storage (MinIO in development, any S3-compatible store in prod)
	S3Endpoint       string `envconfig:"S3_ENDPOINT" default:""`
	S3AccessKey      string `envconfig:"S3_ACCESS_KEY" default:""`
	S3SecretKey      string `envconfig:"S3_SECRET_KEY" default:""`
	S3Bucket         string `envconfig:"S3_BUCKET" default:"photos"`
	S3Region         string `envconfig:"S3_REGION" default:"us-east-1"`
	S3ForcePathStyle bool   `envconfig:"S3_FORCE_PATH_STYLE" default:"true"`

	// Upstream base URLs consumed by the timeline UI and lovectl
	MomentsBaseURL    string `envconfig:"MOMENTS_BASE_URL" default:"http://localhost:8081"`
	PhotostockBaseURL string `envconfig:"PHOTOSTOCK_BASE_URL" default:"http://localhost:8082"`
	TimerBaseURL      string `envconfig:"TIMER_BASE_URL" default:"http://localhost:8084"`

	// Timer anchor instant, RFC3339
	TimerStart string `envconfig:"TIMER_START" default:"2025-03-06T18:00:00Z"`

	// Timeline fetch/render tuning
	RequestTimeoutMs int `envconfig:"REQUEST_TIMEOUT_MS" default:"6000"`
	CacheTTLMs       int `envconfig:"CACHE_TTL_MS" default:"45000"`
	MaxMoments       int `envconfig:"MAX_MOMENTS" default:"500"`
	BatchSize        int `envconfig:"BATCH_SIZE" default:"16"`
	MaxRetries       int `envconfig:"MAX_RETRIES" default:"2"`
	HydrateWorkers   int `envconfig:"HYDRATE_WORKERS" default:"6"`
}

// ResolveDefaults derives DBDriver when set to "auto" and validates it.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a new Config by parsing LOVE_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("LOVE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("s3_endpoint", cfg.S3Endpoint).
		Str("s3_bucket", cfg.S3Bucket).
		Int("max_moments", cfg.MaxMoments).
		Int("batch_size", cfg.BatchSize).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests: SQLite in memory,
// no object storage endpoint.
func NewForTesting() *Config {
	cfg := &Config{
		Environment: EnvTesting,
		DBDriver:    "sqlite",
		SQLitePath:  ":memory:",

		MomentsPort:    8081,
		PhotostockPort: 8082,
		CarouselPort:   8083,
		TimerPort:      8084,
		TimelineUIPort: 8080,

		S3Bucket: "photos-test",
		S3Region: "us-east-1",

		TimerStart: "2025-03-06T18:00:00Z",

		RequestTimeoutMs: 1000,
		CacheTTLMs:       1000,
		MaxMoments:       500,
		BatchSize:        16,
		MaxRetries:       2,
		HydrateWorkers:   6,
	}
	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// MomentsAddr returns the moments service listen address.
func (c *Config) MomentsAddr() string { return fmt.Sprintf(":%d", c.MomentsPort) }

// PhotostockAddr returns the photostock service listen address.
func (c *Config) PhotostockAddr() string { return fmt.Sprintf(":%d", c.PhotostockPort) }

// CarouselAddr returns the carousel service listen address.
func (c *Config) CarouselAddr() string { return fmt.Sprintf(":%d", c.CarouselPort) }

// TimerAddr returns the timer service listen address.
func (c *Config) TimerAddr() string { return fmt.Sprintf(":%d", c.TimerPort) }

// TimelineUIAddr returns the timeline UI listen address.
func (c *Config) TimelineUIAddr() string { return fmt.Sprintf(":%d", c.TimelineUIPort) }
