// Package plugin provides the public SDK types for curvefit modules.
// Every module mounted by the server (the fitting engine today) implements
// these interfaces.
package plugin

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// API version constants for plugin compatibility checking.
// The registry rejects plugins outside the supported range.
const (
	APIVersionMin     = 1
	APIVersionCurrent = 1
)

// Plugin defines the lifecycle every module implements.
type Plugin interface {
	// Info returns the plugin's metadata.
	Info() PluginInfo

	// Init wires the plugin to its dependencies and reads its config.
	Init(ctx context.Context, deps Dependencies) error

	// Start begins any background work.
	Start(ctx context.Context) error

	// Stop gracefully shuts the plugin down.
	Stop(ctx context.Context) error
}

// PluginInfo contains plugin metadata.
type PluginInfo struct {
	Name        string // Unique identifier and URL segment: "fitting"
	Version     string
	Description string
	Required    bool // If true, the server refuses to start without this plugin
	APIVersion  int
}

// Dependencies provides controlled access to shared services.
// Injected by the registry during Init.
type Dependencies struct {
	Config Config      // Scoped to this plugin's config section
	Logger *zap.Logger // Named logger for this plugin
}

// Route represents an HTTP route exposed by a plugin. Path is relative to
// /api/v1/{plugin}.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// HTTPProvider is implemented by plugins that expose HTTP routes.
type HTTPProvider interface {
	Routes() []Route
}

// HealthChecker is implemented by plugins that report their own health.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}

// Validator is implemented by plugins that check their config after Init.
type Validator interface {
	ValidateConfig() error
}

// HealthStatus represents a plugin's health report.
type HealthStatus struct {
	Status  string            `json:"status"` // "healthy", "degraded", "unhealthy"
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Config abstracts configuration access. Wraps Viper today.
type Config interface {
	Unmarshal(target any) error
	Get(key string) any
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	IsSet(key string) bool
	Sub(key string) Config
}
