// Package config loads process configuration from a YAML file overlaid
// with environment variables, via a viper-based loader.
package config

import (
	"time"

	"github.com/duelcore/matchcore/pkg/auth/jwt"
	httpserver "github.com/duelcore/matchcore/pkg/http/server"
	"github.com/duelcore/matchcore/pkg/logging"
	"github.com/duelcore/matchcore/pkg/metrics"

	appconfig "github.com/duelcore/matchcore/pkg/config"
)

// DatabaseConfig configures the Postgres connection backing the Match
// Store, Rating Engine, and Identity Resolver.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// RedisConfig configures the Pool Adapter's Redis connection.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RabbitMQConfig configures the Finalization Publisher's connection.
type RabbitMQConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	VHost        string `mapstructure:"vhost"`
	ExchangeName string `mapstructure:"exchange_name"`
}

// MatchConfig configures the Lifecycle Coordinator's timing and locking
// behavior.
type MatchConfig struct {
	ConfirmWindowSeconds int `mapstructure:"confirm_window_seconds"`
	RematchWindowSeconds int `mapstructure:"rematch_window_seconds"`
	LockTimeoutMS        int `mapstructure:"lock_timeout_ms"`
}

// ConfirmWindow returns the configured confirm window as a duration.
func (m MatchConfig) ConfirmWindow() time.Duration {
	return time.Duration(m.ConfirmWindowSeconds) * time.Second
}

// RematchWindow returns the configured rematch offer window as a duration.
func (m MatchConfig) RematchWindow() time.Duration {
	return time.Duration(m.RematchWindowSeconds) * time.Second
}

// LockTimeout returns the configured rating-row lock timeout as a duration.
func (m MatchConfig) LockTimeout() time.Duration {
	return time.Duration(m.LockTimeoutMS) * time.Millisecond
}

// AuthConfig wraps the JWT manager configuration the gateway's credential
// issuer also uses; this service only validates, never issues.
type AuthConfig struct {
	JWT jwt.Config `mapstructure:"jwt"`
}

// Config is the full process configuration.
type Config struct {
	Server   httpserver.Config `mapstructure:"server"`
	Database DatabaseConfig    `mapstructure:"database"`
	Redis    RedisConfig       `mapstructure:"redis"`
	RabbitMQ RabbitMQConfig    `mapstructure:"rabbitmq"`
	Auth     AuthConfig        `mapstructure:"auth"`
	Match    MatchConfig       `mapstructure:"match"`
	Log      logging.Config    `mapstructure:"log"`
	Metrics  metrics.Config    `mapstructure:"metrics"`
}

func defaults() Config {
	cfg := Config{}
	cfg.Server = httpserver.DefaultConfig()
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConns = 20
	cfg.Database.MaxIdle = 5
	cfg.RabbitMQ.VHost = "/"
	cfg.RabbitMQ.ExchangeName = "match.events"
	cfg.Match.ConfirmWindowSeconds = 20
	cfg.Match.RematchWindowSeconds = 20
	cfg.Match.LockTimeoutMS = 5000
	cfg.Log = logging.DefaultConfig()
	cfg.Metrics = metrics.DefaultConfig()
	cfg.Metrics.ServiceName = "matchcore"
	return cfg
}

// Load reads configPath/configName.yaml (if present) and overlays
// environment variables on top, named by the upper-cased key path with dots
// replaced by underscores (match.lock_timeout_ms is MATCH_LOCK_TIMEOUT_MS);
// no prefix is applied.
func Load(configPath, configName string) (*Config, error) {
	v, err := appconfig.LoadConfig(configPath, configName)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
