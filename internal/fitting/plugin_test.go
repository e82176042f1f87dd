package fitting

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/curvefit/internal/config"
	"github.com/HerbHall/curvefit/pkg/plugin"
	"github.com/HerbHall/curvefit/pkg/plugin/plugintest"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func TestPluginContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() })
}

func TestInit_WithConfig(t *testing.T) {
	v := viper.New()
	v.Set("max_samples", 50)
	v.Set("max_body_bytes", 2048)
	v.Set("slow_fit_threshold", "1s")
	v.Set("ws_enabled", false)

	m := New()
	err := m.Init(context.Background(), plugin.Dependencies{
		Logger: zap.NewNop(),
		Config: config.New(v),
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if m.cfg.MaxSamples != 50 {
		t.Errorf("cfg.MaxSamples = %d, want 50", m.cfg.MaxSamples)
	}
	if m.cfg.MaxBodyBytes != 2048 {
		t.Errorf("cfg.MaxBodyBytes = %d, want 2048", m.cfg.MaxBodyBytes)
	}
	if m.cfg.SlowFitThreshold != time.Second {
		t.Errorf("cfg.SlowFitThreshold = %v, want 1s", m.cfg.SlowFitThreshold)
	}
	if m.cfg.WSEnabled {
		t.Error("cfg.WSEnabled = true, want false")
	}
	// Unset keys keep their defaults.
	if m.cfg.WSReadLimit != DefaultConfig().WSReadLimit {
		t.Errorf("cfg.WSReadLimit = %d, want default %d", m.cfg.WSReadLimit, DefaultConfig().WSReadLimit)
	}
}

func TestInit_NilConfig(t *testing.T) {
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{Logger: zap.NewNop()}); err != nil {
		t.Fatalf("Init() with nil config error = %v", err)
	}
	if m.cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults %+v", m.cfg, DefaultConfig())
	}
	if m.Service() == nil {
		t.Fatal("Service() = nil after Init")
	}
}

func TestInfo(t *testing.T) {
	info := New().Info()
	if info.Name != "fitting" {
		t.Errorf("Info().Name = %q, want %q", info.Name, "fitting")
	}
	if !info.Required {
		t.Error("fitting plugin should be required")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FittingConfig)
		wantErr bool
	}{
		{"defaults", func(*FittingConfig) {}, false},
		{"max_samples below minimum", func(c *FittingConfig) { c.MaxSamples = 1 }, true},
		{"zero body limit", func(c *FittingConfig) { c.MaxBodyBytes = 0 }, true},
		{"zero ws read limit", func(c *FittingConfig) { c.WSReadLimit = 0 }, true},
		{"zero ws read limit with ws disabled", func(c *FittingConfig) {
			c.WSEnabled = false
			c.WSReadLimit = 0
		}, false},
		{"negative slow threshold", func(c *FittingConfig) { c.SlowFitThreshold = -time.Second }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	m := New()
	if got := m.Health(context.Background()); got.Status != "unhealthy" {
		t.Errorf("Health() before Init status = %q, want unhealthy", got.Status)
	}

	m = newTestModule(t)
	got := m.Health(context.Background())
	if got.Status != "healthy" {
		t.Errorf("Health() status = %q, want healthy", got.Status)
	}
	if got.Details["models"] != "5" {
		t.Errorf("Health() models = %q, want 5", got.Details["models"])
	}
}
