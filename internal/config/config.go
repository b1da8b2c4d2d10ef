package config

import (
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/ai"
	"github.com/fortunecookie-ai/fortune-api/internal/policy"
	"github.com/fortunecookie-ai/fortune-api/internal/quota"
	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Quota     QuotaConfig     `yaml:"quota"`
	Cache     CacheConfig     `yaml:"cache"`
	AI        AIConfig        `yaml:"ai"`
	Policy    PolicyConfig    `yaml:"policy"`
	Messages  MessagesConfig  `yaml:"messages"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + itoa(d.Port) + "/" + d.Name + "?sslmode=disable"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	s := ""
	for i > 0 {
		s = string(rune('0'+i%10)) + s
		i /= 10
	}
	return s
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

type QuotaConfig struct {
	Window             time.Duration `yaml:"window"`
	PublicLimit        int64         `yaml:"public_limit"`
	AuthenticatedLimit int64         `yaml:"authenticated_limit"`
	ElevatedLimit      int64         `yaml:"elevated_limit"`
}

// Limits converts the YAML quota section into the per-tier limit table.
func (q QuotaConfig) Limits() quota.Limits {
	return quota.Limits{
		Window: q.Window,
		PerTier: map[types.Tier]int64{
			types.TierPublic:        q.PublicLimit,
			types.TierAuthenticated: q.AuthenticatedLimit,
			types.TierElevated:      q.ElevatedLimit,
		},
	}
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`

	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

func (a AIConfig) Options() ai.Options {
	return ai.Options{
		BaseURL:     a.BaseURL,
		APIKey:      a.APIKey,
		Model:       a.Model,
		Timeout:     a.Timeout,
		MaxRetries:  a.MaxRetries,
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
	}
}

type CircuitBreakerConfig struct {
	FailureThreshold      int           `yaml:"failure_threshold"`
	RecoveryProbeInterval time.Duration `yaml:"recovery_probe_interval"`
}

type PolicyConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BundlePath        string        `yaml:"bundle_path"`
	EvaluationTimeout time.Duration `yaml:"evaluation_timeout"`
}

func (p PolicyConfig) Policy() policy.Config {
	return policy.Config{
		Enabled:           p.Enabled,
		BundlePath:        p.BundlePath,
		EvaluationTimeout: p.EvaluationTimeout,
	}
}

// MessagesConfig selects the curated message backend: "postgres" or "static".
type MessagesConfig struct {
	Source string `yaml:"source"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "fortune",
			User:            "fortune",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			DB:       0,
			PoolSize: 50,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		Quota: QuotaConfig{
			Window:             time.Hour,
			PublicLimit:        20,
			AuthenticatedLimit: 100,
			ElevatedLimit:      500,
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		AI: AIConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.3-70b-versatile",
			Timeout:     10 * time.Second,
			MaxRetries:  2,
			Temperature: 0.9,
			MaxTokens:   150,
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold:      5,
				RecoveryProbeInterval: 15 * time.Second,
			},
		},
		Policy: PolicyConfig{
			Enabled:           false,
			BundlePath:        "/etc/fortune/policies",
			EvaluationTimeout: 100 * time.Millisecond,
		},
		Messages: MessagesConfig{
			Source: "static",
		},
	}
}
