// Package fitting mounts the curve-fitting engine as a server plugin. It
// owns the HTTP routes under /api/v1/fitting, the batch metrics and the
// Service shared with the WebSocket and CLI front ends.
package fitting

import (
	"context"
	"fmt"
	"strconv"

	"github.com/HerbHall/curvefit/internal/fitting/regression"
	"github.com/HerbHall/curvefit/pkg/plugin"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HTTPProvider  = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
	_ plugin.Validator     = (*Module)(nil)
)

// Module implements the fitting plugin.
type Module struct {
	logger  *zap.Logger
	cfg     FittingConfig
	service *Service
}

// New creates a new fitting plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "fitting",
		Version:     "0.1.0",
		Description: "Least-squares curve fitting with worked explanations",
		Required:    true,
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("unmarshal fitting config: %w", err)
		}
	}

	m.service = NewService(m.cfg, m.logger)

	m.logger.Info("fitting module initialized",
		zap.Int("max_samples", m.cfg.MaxSamples),
		zap.Int64("max_body_bytes", m.cfg.MaxBodyBytes),
		zap.Duration("slow_fit_threshold", m.cfg.SlowFitThreshold),
		zap.Bool("ws_enabled", m.cfg.WSEnabled),
	)
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("fitting module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if m.logger != nil {
		m.logger.Info("fitting module stopped")
	}
	return nil
}

// ValidateConfig implements plugin.Validator.
func (m *Module) ValidateConfig() error {
	return m.cfg.Validate()
}

// Service returns the fitting service for other front ends. Nil before Init.
func (m *Module) Service() *Service {
	return m.service
}

// Config returns the effective plugin configuration.
func (m *Module) Config() FittingConfig {
	return m.cfg
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(_ context.Context) plugin.HealthStatus {
	if m.service == nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: "not initialized"}
	}
	fitted, rejected := m.service.Stats()
	return plugin.HealthStatus{
		Status: "healthy",
		Details: map[string]string{
			"models":           strconv.Itoa(len(regression.Models)),
			"batches_fitted":   strconv.FormatInt(fitted, 10),
			"batches_rejected": strconv.FormatInt(rejected, 10),
		},
	}
}
