package nexus

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/nexus/cache"
	"github.com/zero-day-ai/nexus/connect"
	"github.com/zero-day-ai/nexus/settings"
)

// Option configures the Hub.
type Option func(*hubConfig)

// hubConfig holds configuration for the Hub instance.
type hubConfig struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	timeout  time.Duration
	cache    *cache.Cache
	settings settings.Provider
	factory  connect.Factory
}

// WithLogger sets a custom logger for the hub and its orchestrator.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *hubConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing of
// aggregation invocations. A noop tracer is used when unset.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *hubConfig) {
		c.tracer = tracer
	}
}

// WithTimeout sets the per-platform call timeout applied during fan-out
// operations. Defaults to aggregate.DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *hubConfig) {
		c.timeout = d
	}
}

// WithCache attaches a Redis-backed memo for fan-out fetch results. The
// hub is fully functional without one.
func WithCache(store *cache.Cache) Option {
	return func(c *hubConfig) {
		c.cache = store
	}
}

// WithSettings sets the saved-platform settings provider used by
// connection testing.
func WithSettings(provider settings.Provider) Option {
	return func(c *hubConfig) {
		c.settings = provider
	}
}

// WithClientFactory sets the factory used to build platform clients for
// connection testing. Without a factory, TestConnection reports that
// connection testing is not configured.
func WithClientFactory(factory connect.Factory) Option {
	return func(c *hubConfig) {
		c.factory = factory
	}
}
