package nexus

import (
	"context"
	"log/slog"
	"time"

	"github.com/zero-day-ai/nexus/aggregate"
	"github.com/zero-day-ai/nexus/cache"
	"github.com/zero-day-ai/nexus/client"
	"github.com/zero-day-ai/nexus/connect"
	"github.com/zero-day-ai/nexus/entity"
	"github.com/zero-day-ai/nexus/platformerr"
)

// Hub is the caller-facing facade over the aggregation core. It borrows an
// externally owned client registry, fans operations out through the
// orchestrator, and wraps every outcome in the Response envelope.
//
// The registry handle is injected, never global: the connection-management
// layer owns and edits it, the hub only reads it. A Hub is safe for
// concurrent use.
type Hub struct {
	registry *client.Registry
	orch     *aggregate.Orchestrator
	tester   *connect.Tester
	store    *cache.Cache
	logger   *slog.Logger
	timeout  time.Duration
}

// New creates a Hub over the given client registry.
//
// A nil registry is replaced with an empty one so a freshly installed,
// unconfigured application still gets well-formed "not configured"
// envelopes instead of panics.
func New(registry *client.Registry, opts ...Option) (*Hub, error) {
	cfg := &hubConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if registry == nil {
		registry = client.NewRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	orchOpts := []aggregate.Option{
		aggregate.WithLogger(cfg.logger),
	}
	if cfg.tracer != nil {
		orchOpts = append(orchOpts, aggregate.WithTracer(cfg.tracer))
	}
	if cfg.timeout > 0 {
		orchOpts = append(orchOpts, aggregate.WithTimeout(cfg.timeout))
	}

	h := &Hub{
		registry: registry,
		orch:     aggregate.New(orchOpts...),
		store:    cfg.cache,
		logger:   cfg.logger,
		timeout:  cfg.timeout,
	}

	if cfg.factory != nil && cfg.settings != nil {
		h.tester = connect.New(cfg.factory, cfg.settings,
			connect.WithLogger(cfg.logger))
	}

	return h, nil
}

// fetchAllKey fingerprints a fan-out fetch over the current registry
// contents for cache lookups.
func (h *Hub) fetchAllKey() string {
	ids := make([]string, 0, h.registry.Len())
	for _, handle := range h.registry.Entries() {
		ids = append(ids, handle.PlatformID)
	}
	return cache.Key("fetch_all", ids...)
}

// FetchEntities fetches from every configured platform in parallel and
// returns the merged, deduplicated, platform-stamped records together with
// the list of platforms that failed. Partial failure is still success; the
// envelope only fails when no platforms are configured at all.
func (h *Hub) FetchEntities(ctx context.Context) Response {
	if err := h.registry.CheckConfigured(); err != nil {
		return Fail(err)
	}

	key := h.fetchAllKey()
	if h.store != nil {
		if records, hit, err := h.store.GetRecords(ctx, key); err == nil && hit {
			return OK(AggregatedData{Results: records, Errors: []PlatformFailure{}})
		} else if err != nil {
			h.logger.Warn("cache read failed", "key", key, "error", err)
		}
	}

	result := h.orch.FetchAll(ctx, h.registry, func(ctx context.Context, c client.Client) ([]entity.Record, error) {
		return c.FetchEntities(ctx)
	}, h.timeout)

	// Only fully successful invocations are cached; a cached partial view
	// would hide platform failures from later callers.
	if h.store != nil && len(result.Errors) == 0 {
		if err := h.store.PutRecords(ctx, key, result.Results); err != nil {
			h.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}

	return OK(toAggregatedData(result))
}

// SearchEntities searches every configured platform, or only the one named
// by platformID when non-empty. Results are never deduplicated across
// platforms; a platform that fails contributes nothing, silently.
func (h *Hub) SearchEntities(ctx context.Context, term, platformID string) Response {
	if err := h.registry.CheckConfigured(); err != nil {
		return Fail(err)
	}

	records, err := h.orch.Search(ctx, h.registry, platformID, func(ctx context.Context, c client.Client) ([]entity.Record, error) {
		return c.SearchEntities(ctx, term)
	}, h.timeout)
	if err != nil {
		return Fail(err)
	}
	return OK(records)
}

// FetchPlatformEntities fetches from a single named platform, with no
// fan-out timeout race; the caller bounds the call through ctx.
func (h *Hub) FetchPlatformEntities(ctx context.Context, platformID string) Response {
	c, err := h.registry.GetOrError(platformID)
	if err != nil {
		return Fail(err)
	}

	records, err := h.orch.FetchSingle(ctx, c, platformID, func(ctx context.Context, c client.Client) ([]entity.Record, error) {
		return c.FetchEntities(ctx)
	})
	if err != nil {
		return Fail(err)
	}
	return OK(records)
}

// CreateEntity creates an entity on the named platform, or on the first
// configured platform when platformID is empty.
func (h *Hub) CreateEntity(ctx context.Context, platformID string, record entity.Record) Response {
	handle, err := h.registry.Target(platformID)
	if err != nil {
		return Fail(err)
	}

	created, err := handle.Client.CreateEntity(ctx, record)
	if err != nil {
		return Fail(platformerr.Transport(handle.PlatformID, "create", err))
	}
	return OK(created)
}

// TestConnection probes a platform from saved or temporary credentials.
// It requires the hub to have been built with WithClientFactory and
// WithSettings.
func (h *Hub) TestConnection(ctx context.Context, req connect.Request) Response {
	if h.tester == nil {
		return Response{Success: false, Error: "connection testing is not configured"}
	}

	meta, err := h.tester.Test(ctx, req)
	if err != nil {
		return Fail(err)
	}
	return OK(meta)
}

// toAggregatedData converts an orchestrator result into its envelope form,
// reducing each platform failure to its message text.
func toAggregatedData(r aggregate.Result) AggregatedData {
	failures := make([]PlatformFailure, 0, len(r.Errors))
	for _, e := range r.Errors {
		failures = append(failures, PlatformFailure{
			PlatformID: e.PlatformID,
			Error:      e.Message(),
		})
	}
	return AggregatedData{Results: r.Results, Errors: failures}
}
