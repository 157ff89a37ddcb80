package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

type MetricsConfig struct {
	// Port of a dedicated metrics listener. 0 serves /metrics on the main mux.
	Port int `mapstructure:"port"`
}

type RedisConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Addr               string `mapstructure:"addr"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"`
}

type SeedConfig struct {
	// Path of a YAML activity catalog. Empty means the built-in catalog.
	Path string `mapstructure:"path"`
}

type CapacityConfig struct {
	Enforce bool `mapstructure:"enforce"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Capacity CapacityConfig `mapstructure:"capacity"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Load reads configuration from CONFIG_PATH (default config/server.yaml,
// optional) with environment variable overrides. A missing config file is
// fine; a malformed one is an error.
func Load() (*Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/server.yaml"
	}

	v := viper.New()
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("metrics.port", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.rate_limit_per_minute", 60)
	v.SetDefault("seed.path", "")
	v.SetDefault("capacity.enforce", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	bindEnvOverrides(v)

	v.SetConfigFile(cfgPath)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(cfgPath); statErr == nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file present; defaults and env apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server.port %d", cfg.Server.Port)
	}
	return &cfg, nil
}

func bindEnvOverrides(v *viper.Viper) {
	// Explicit bindings keep the env surface documented in one place.
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.static_dir", "STATIC_DIR")
	_ = v.BindEnv("metrics.port", "METRICS_PORT")
	_ = v.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.rate_limit_per_minute", "RATE_LIMIT_PER_MINUTE")
	_ = v.BindEnv("seed.path", "SEED_PATH")
	_ = v.BindEnv("capacity.enforce", "ENFORCE_CAPACITY")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
}
