package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/volunteerhub/dashboard/internal/pkg/validation"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	TransportDirect = "direct"
	TransportProxy  = "proxy"

	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Default API hosts: local loopback in development, the public tunnel in
// production. API_BASE_URL overrides both.
const (
	DevelopmentBaseURL = "http://localhost:8080"
	ProductionBaseURL  = "https://unscreenable-cathrine-unprejudicially.ngrok-free.dev"
)

type Config struct {
	Env          string        `env:"ENV,           default=development" validate:"oneof=development production"`
	LogLevel     string        `env:"LOG_LEVEL,     default=info"`
	APIBaseURL   string        `env:"API_BASE_URL"                       validate:"omitempty,url"`
	Transport    string        `env:"TRANSPORT,     default=direct"      validate:"oneof=direct proxy"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT,  default=0s"`
	UserAgent    string        `env:"USER_AGENT,    default=VolunteerDashboard-Electron"`
	VerifyDedupe bool          `env:"VERIFY_DEDUPE, default=false"`

	Proxy   ProxyConfig
	Storage StorageConfig
}

type ProxyConfig struct {
	// Addr is where the client reaches the proxy.
	Addr string `env:"PROXY_ADDR,   default=http://127.0.0.1:17321" validate:"url"`
	// Listen is where the proxy process binds.
	Listen string `env:"PROXY_LISTEN, default=127.0.0.1:17321"`
}

type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND, default=file" validate:"oneof=memory file redis"`
	Path    string `env:"STORAGE_PATH"`
	Redis   RedisConfig
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=volunteer:"`
}

// Load reads configuration from the process environment using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from an arbitrary lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := validation.New().Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// BaseURL is the API root without a trailing slash.
func (c *Config) BaseURL() string {
	base := c.APIBaseURL
	if base == "" {
		base = DevelopmentBaseURL
		if c.IsProduction() {
			base = ProductionBaseURL
		}
	}
	return strings.TrimRight(base, "/")
}
