package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConnectionString is used when POSTGRESQL_CONNECTION is absent or empty.
const DefaultConnectionString = "DefaultConnectionString"

// Config holds every setting the service reads at startup.
type Config struct {
	ConnectionString   string        `mapstructure:"postgresql_connection"`
	Port               string        `mapstructure:"port"`
	ServiceName        string        `mapstructure:"service_name"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFormat          string        `mapstructure:"log_format"`
	HeartbeatInterval  time.Duration `mapstructure:"heartbeat_interval"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RedisAddr          string        `mapstructure:"redis_addr"`
	OTLPEndpoint       string        `mapstructure:"otel_exporter_otlp_endpoint"`
	TraceSampleRate    float64       `mapstructure:"otel_traces_sampler_arg"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	// RateLimitRPS is the per-client request rate. Zero disables limiting.
	RateLimitRPS       float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	ConfigAuthSecret   string        `mapstructure:"config_auth_secret"`
}

// AppConfig is the part of the configuration echoed by GET /config.
type AppConfig struct {
	ConnectionString string `json:"connectionString"`
}

// App returns the immutable application config shared by request handlers.
func (c *Config) App() AppConfig {
	return AppConfig{ConnectionString: c.ConnectionString}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load resolves configuration from defaults, an optional config file and the environment.
// An empty path looks for config.yaml in the working directory and ./config.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// An empty value in the config file also falls back.
	if cfg.ConnectionString == "" {
		cfg.ConnectionString = DefaultConnectionString
	}
	if cfg.HeartbeatInterval <= 0 {
		return nil, fmt.Errorf("heartbeat_interval must be positive, got %s", cfg.HeartbeatInterval)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("postgresql_connection", DefaultConnectionString)
	v.SetDefault("port", "8080")
	v.SetDefault("service_name", "product-catalog")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("heartbeat_interval", "1s")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("redis_addr", "")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_traces_sampler_arg", 1.0)
	v.SetDefault("cors_allowed_origins", []string{"*"})
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("config_auth_secret", "")
}
