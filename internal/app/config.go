package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (GAMEHUB_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (GAMEHUB_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Catalog     CatalogConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// CatalogConfig controls the upstream game metadata client and its cache.
type CatalogConfig struct {
	APIKey   string        `usage:"Game metadata API key (GAMEHUB_CATALOG_API_KEY)" flag:"catalog-api-key"`
	BaseURL  string        `default:"" usage:"Override for the metadata API base URL" flag:"catalog-base-url"`
	CacheTTL time.Duration `default:"1h" usage:"TTL for cached upstream responses" flag:"catalog-cache-ttl"`
}

// AuthConfig controls account credential handling.
type AuthConfig struct {
	BcryptCost int `default:"0" usage:"bcrypt cost for password hashing (0 = library default)" flag:"bcrypt-cost"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "GAMEHUB",
		Files:     []string{"config.yaml", "/etc/gamehub/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set GAMEHUB_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Catalog.APIKey == "" {
		return nil, errors.New("catalog API key is required: set GAMEHUB_CATALOG_API_KEY")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's GAMEHUB_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if c.Catalog.APIKey == "" {
		if v := os.Getenv("RAWG_API_KEY"); v != "" {
			c.Catalog.APIKey = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
