package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Asaas   AsaasConfig
	Redis   RedisConfig
	Cache   CacheConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// Tenant is the tenant slug presented to the gateway proxy. It must be
	// configured explicitly in production; the development default exists so
	// local setups work out of the box.
	Tenant string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// BackendConfig holds the remote backend API settings. The backend is the
// system of record for financial accounts; this service holds no local copy.
type BackendConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// AsaasConfig holds the payment-gateway proxy settings
type AsaasConfig struct {
	BaseURL  string
	ClientID string
	Token    string
	Timeout  time.Duration
	// RateLimit caps outgoing proxy calls per second; Burst is the bucket size.
	RateLimit float64
	Burst     int
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds read-model cache settings
type CacheConfig struct {
	Backend       string // memory, redis
	TTL           time.Duration
	AllowFallback bool // fall back to in-memory when Redis is unavailable
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with AMPARO_ prefix (e.g., AMPARO_ASAAS_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("AMPARO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:   v.GetString("app.name"),
			Env:    v.GetString("app.env"),
			Port:   v.GetString("app.port"),
			Tenant: v.GetString("app.tenant"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Backend: BackendConfig{
			BaseURL: v.GetString("backend.base_url"),
			Token:   v.GetString("backend.token"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Asaas: AsaasConfig{
			BaseURL:   v.GetString("asaas.base_url"),
			ClientID:  v.GetString("asaas.client_id"),
			Token:     v.GetString("asaas.token"),
			Timeout:   v.GetDuration("asaas.timeout"),
			RateLimit: v.GetFloat64("asaas.rate_limit"),
			Burst:     v.GetInt("asaas.burst"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Backend:       v.GetString("cache.backend"),
			TTL:           v.GetDuration("cache.ttl"),
			AllowFallback: v.GetBool("cache.allow_fallback"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "amparo-backoffice"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Tenant == "" && cfg.App.Env != "production" {
		cfg.App.Tenant = "amparo-dev"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Backend.BaseURL == "" && cfg.App.Env != "production" {
		cfg.Backend.BaseURL = "http://localhost:3333"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Asaas.Timeout == 0 {
		cfg.Asaas.Timeout = 30 * time.Second
	}
	if cfg.Asaas.RateLimit == 0 {
		cfg.Asaas.RateLimit = 10
	}
	if cfg.Asaas.Burst == 0 {
		cfg.Asaas.Burst = 20
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 30 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got %q", c.Cache.Backend)
	}
	if c.Asaas.RateLimit < 0 {
		return fmt.Errorf("asaas.rate_limit cannot be negative")
	}

	// Production-specific validations: gateway credentials and tenant have no
	// safe defaults and must be supplied explicitly.
	if c.App.Env == "production" {
		if c.App.Tenant == "" {
			return fmt.Errorf("app.tenant is required in production")
		}
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required in production")
		}
		if c.Asaas.BaseURL == "" {
			return fmt.Errorf("asaas.base_url is required in production")
		}
		if c.Asaas.ClientID == "" {
			return fmt.Errorf("asaas.client_id is required in production")
		}
		if c.Asaas.Token == "" {
			return fmt.Errorf("asaas.token is required in production")
		}
	}

	return nil
}

// Addr returns the Redis connection address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
