package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Galaxy    GalaxyConfig
	Telemetry TelemetryConfig
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	URL      string `env:"REDIS_URL"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type ServerConfig struct {
	Port         string        `env:"SERVER_PORT" envDefault:"8080"`
	URL          string        `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	Environment  string        `env:"ENVIRONMENT" envDefault:"development"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

type DatabaseConfig struct {
	Enabled         bool          `env:"DB_ENABLED" envDefault:"true"`
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
	Path            string        `env:"DB_PATH" envDefault:"starmap.db"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"starmap"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
}

type FrontendConfig struct {
	URL       string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSDebug bool   `env:"CORS_DEBUG" envDefault:"false"`
}

type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"debug"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RequestsPerSecond float64 `env:"RATE_LIMIT_REQUESTS_PER_SECOND" envDefault:"10"`
	BurstSize         int     `env:"RATE_LIMIT_BURST_SIZE" envDefault:"20"`
	TrustProxy        bool    `env:"RATE_LIMIT_TRUST_PROXY" envDefault:"false"`
}

type GalaxyConfig struct {
	Name           string        `env:"GALAXY_NAME" envDefault:"Milky Way"`
	Seed           uint64        `env:"GALAXY_SEED" envDefault:"1"`
	SystemCount    int           `env:"GALAXY_SYSTEM_COUNT" envDefault:"500"`
	Radius         float64       `env:"GALAXY_RADIUS" envDefault:"1000"`
	Thickness      float64       `env:"GALAXY_THICKNESS" envDefault:"100"`
	CellSize       float64       `env:"GALAXY_CELL_SIZE" envDefault:"16"`
	SectorSize     float64       `env:"GALAXY_SECTOR_SIZE" envDefault:"256"`
	NamesPath      string        `env:"GALAXY_NAMES_PATH"`
	GeneratorsPath string        `env:"GALAXY_GENERATORS_PATH"`
	Regenerate     bool          `env:"GALAXY_REGENERATE" envDefault:"false"`
	RouteCacheTTL  time.Duration `env:"GALAXY_ROUTE_CACHE_TTL" envDefault:"10m"`
	MaxExpansions  int           `env:"GALAXY_ROUTE_MAX_EXPANSIONS" envDefault:"100000"`
}

type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"starmap-server"`
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	config.Logging.JSONFormat = config.Logging.Format == "json" || config.IsProduction()
	return config, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case "sqlite":
			if c.Database.Path == "" {
				return fmt.Errorf("DB_PATH is required for the sqlite driver")
			}
		case "postgres":
			if c.Database.Host == "" {
				return fmt.Errorf("DB_HOST is required")
			}
			if c.Database.Name == "" {
				return fmt.Errorf("DB_NAME is required")
			}
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
		}
	}

	if c.Galaxy.SystemCount < 0 {
		return fmt.Errorf("GALAXY_SYSTEM_COUNT must not be negative")
	}

	if c.Galaxy.Radius <= 0 || c.Galaxy.Thickness < 0 {
		return fmt.Errorf("GALAXY_RADIUS must be positive and GALAXY_THICKNESS must not be negative")
	}

	if c.Galaxy.CellSize <= 0 || c.Galaxy.SectorSize <= 0 {
		return fmt.Errorf("GALAXY_CELL_SIZE and GALAXY_SECTOR_SIZE must be positive")
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ConnectionString returns the data source name for the configured driver.
func (c *Config) ConnectionString() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
