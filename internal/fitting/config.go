package fitting

import (
	"fmt"
	"time"

	"github.com/HerbHall/curvefit/internal/fitting/regression"
)

// FittingConfig holds configuration for the fitting plugin.
type FittingConfig struct {
	MaxSamples       int           `mapstructure:"max_samples"`
	MaxBodyBytes     int64         `mapstructure:"max_body_bytes"`
	SlowFitThreshold time.Duration `mapstructure:"slow_fit_threshold"`

	// Live fitting over WebSocket.
	WSEnabled   bool  `mapstructure:"ws_enabled"`
	WSReadLimit int64 `mapstructure:"ws_read_limit"`
}

// DefaultConfig returns the defaults used when no config section is present.
func DefaultConfig() FittingConfig {
	return FittingConfig{
		MaxSamples:       10000,
		MaxBodyBytes:     1 << 20,
		SlowFitThreshold: 250 * time.Millisecond,
		WSEnabled:        true,
		WSReadLimit:      1 << 20,
	}
}

// Validate rejects limits the engine cannot work with.
func (c FittingConfig) Validate() error {
	if c.MaxSamples < regression.MinSamples {
		return fmt.Errorf("max_samples must be at least %d, got %d", regression.MinSamples, c.MaxSamples)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.WSEnabled && c.WSReadLimit <= 0 {
		return fmt.Errorf("ws_read_limit must be positive, got %d", c.WSReadLimit)
	}
	if c.SlowFitThreshold < 0 {
		return fmt.Errorf("slow_fit_threshold must not be negative, got %s", c.SlowFitThreshold)
	}
	return nil
}
