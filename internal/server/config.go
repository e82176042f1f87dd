package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envKeyReplacer maps nested keys to env names: server.port -> SERVER_PORT.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds the server configuration.
type Config struct {
	Host           string  `mapstructure:"host"`
	Port           int     `mapstructure:"port"`
	DevMode        bool    `mapstructure:"dev_mode"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ServerConfig extracts the server section from v.
func ServerConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.UnmarshalKey("server", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal server config: %w", err)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("server.port %d out of range", cfg.Port)
	}
	return cfg, nil
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.rate_limit_rps", 100.0)
	v.SetDefault("server.rate_limit_burst", 200)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "24h")

	v.SetDefault("plugins.fitting.max_samples", 10000)
	v.SetDefault("plugins.fitting.max_body_bytes", 1<<20)
	v.SetDefault("plugins.fitting.slow_fit_threshold", "250ms")
	v.SetDefault("plugins.fitting.ws_enabled", true)
	v.SetDefault("plugins.fitting.ws_read_limit", 1<<20)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("curvefit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/curvefit")
	}

	// CF_SERVER_PORT=9090 overrides server.port.
	v.SetEnvPrefix("CF")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}
