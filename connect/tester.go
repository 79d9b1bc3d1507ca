// Package connect builds and probes platform clients from saved or
// temporary credentials.
//
// The tester serves the "test connection" flow of platform configuration:
// given either unsaved {url, api token} credentials or the id of an
// already-saved platform instance, it obtains a client and probes it once
// under a bounded timeout, returning the platform-reported metadata
// unmodified or a typed connection failure. Client construction is
// delegated to an injected factory so the transport layer stays outside
// this package.
package connect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zero-day-ai/nexus/client"
	"github.com/zero-day-ai/nexus/entity"
	"github.com/zero-day-ai/nexus/platform"
	"github.com/zero-day-ai/nexus/platformerr"
	"github.com/zero-day-ai/nexus/probe"
	"github.com/zero-day-ai/nexus/settings"
)

// DefaultTimeout bounds one connection probe.
const DefaultTimeout = 30 * time.Second

// Factory constructs a platform client from instance credentials.
// The connection-management layer supplies the concrete transport.
type Factory func(url, apiToken string) (client.Client, error)

// Request describes what to test. Exactly one branch is taken: temporary
// credentials (URL and APIToken set) win over a saved PlatformID; a request
// carrying neither fails with platformerr.ErrMissingParameters.
type Request struct {
	// PlatformID selects a saved platform instance.
	PlatformID string `json:"platformId,omitempty"`

	// URL and APIToken carry temporary, not-yet-saved credentials.
	URL      string `json:"url,omitempty"`
	APIToken string `json:"apiToken,omitempty"`
}

// Tester probes platform connectivity.
type Tester struct {
	factory   Factory
	settings  settings.Provider
	clients   *client.Registry
	timeout   time.Duration
	logger    *slog.Logger
	preflight bool
}

// Option configures a Tester.
type Option func(*Tester)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tester) {
		t.logger = logger
	}
}

// WithTimeout sets the probe timeout (DefaultTimeout when unset).
func WithTimeout(d time.Duration) Option {
	return func(t *Tester) {
		t.timeout = d
	}
}

// WithRegistry sets the registry used to cache clients lazily built from
// saved settings. When unset the tester keeps a private registry.
func WithRegistry(reg *client.Registry) Option {
	return func(t *Tester) {
		t.clients = reg
	}
}

// WithPreflight toggles the unauthenticated TCP reachability check run
// before the authenticated probe when the instance URL is known. Enabled
// by default; disable for targets behind proxies that reject raw dials.
func WithPreflight(enabled bool) Option {
	return func(t *Tester) {
		t.preflight = enabled
	}
}

// New creates a Tester. The factory builds clients; the provider serves
// saved platform records for the PlatformID branch.
func New(factory Factory, provider settings.Provider, opts ...Option) *Tester {
	t := &Tester{
		factory:   factory,
		settings:  provider,
		timeout:   DefaultTimeout,
		preflight: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clients == nil {
		t.clients = client.NewRegistry()
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Test probes one platform connection and returns the platform-reported
// metadata unmodified.
//
// With temporary credentials a throwaway client is built and probed once;
// with a PlatformID the client is looked up in the registry or lazily
// constructed from saved settings and cached for subsequent tests. A probe
// that exceeds the timeout or fails yields a typed connection failure.
func (t *Tester) Test(ctx context.Context, req Request) (entity.Record, error) {
	switch {
	case req.URL != "" && req.APIToken != "":
		return t.testTemporary(ctx, req.URL, req.APIToken)
	case req.PlatformID != "":
		return t.testSaved(ctx, req.PlatformID)
	default:
		return nil, platformerr.New("", "test_connection", platformerr.ErrCodeMissingParameters,
			"either platformId or url and apiToken are required").
			WithCause(platformerr.ErrMissingParameters)
	}
}

// testTemporary builds a throwaway client from unsaved credentials and
// probes it once. The client is identified by a one-off instance id in
// logs and never cached.
func (t *Tester) testTemporary(ctx context.Context, url, apiToken string) (entity.Record, error) {
	instanceID := "temp-" + uuid.NewString()

	if st := t.runPreflight(ctx, url); st.IsUnhealthy() {
		return nil, platformerr.New(instanceID, "test_connection", platformerr.ErrCodeTransportFailure,
			st.Message)
	}

	c, err := t.factory(url, apiToken)
	if err != nil {
		return nil, platformerr.Transport(instanceID, "test_connection", err)
	}

	return t.doProbe(ctx, instanceID, c)
}

// testSaved probes a platform configured in saved settings, building and
// caching its client on first use.
func (t *Tester) testSaved(ctx context.Context, platformID string) (entity.Record, error) {
	if c, ok := t.clients.Get(platformID); ok {
		return t.doProbe(ctx, platformID, c)
	}

	keys := make([]string, 0, 2)
	for _, d := range platform.All() {
		keys = append(keys, d.SettingsKey)
	}
	rec, found, err := settings.FindByID(ctx, t.settings, platformID, keys...)
	if err != nil {
		return nil, platformerr.Transport(platformID, "test_connection", err)
	}
	if !found {
		return nil, platformerr.New(platformID, "test_connection", platformerr.ErrCodePlatformNotFound,
			fmt.Sprintf("no saved platform with id %q", platformID)).
			WithCause(platformerr.ErrPlatformNotFound)
	}

	if st := t.runPreflight(ctx, rec.URL); st.IsUnhealthy() {
		return nil, platformerr.New(platformID, "test_connection", platformerr.ErrCodeTransportFailure,
			st.Message)
	}

	c, err := t.factory(rec.URL, rec.APIToken)
	if err != nil {
		return nil, platformerr.Transport(platformID, "test_connection", err)
	}
	t.clients.Set(platformID, c)

	return t.doProbe(ctx, platformID, c)
}

// runPreflight checks raw reachability of the instance URL when enabled.
func (t *Tester) runPreflight(ctx context.Context, url string) probe.Status {
	if !t.preflight {
		return probe.Healthy("preflight disabled")
	}
	st := probe.URL(ctx, url)
	if !st.IsHealthy() {
		t.logger.Warn("platform preflight failed",
			"url", url,
			"status", st.Status,
			"message", st.Message)
	}
	return st
}

// doProbe races one TestConnection call against the probe timeout. A
// client that ignores its context is abandoned at the deadline.
func (t *Tester) doProbe(ctx context.Context, platformID string, c client.Client) (entity.Record, error) {
	probeCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type outcome struct {
		meta entity.Record
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		meta, err := c.TestConnection(probeCtx)
		done <- outcome{meta: meta, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, platformerr.Transport(platformID, "test_connection", out.err)
		}
		return out.meta, nil
	case <-probeCtx.Done():
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return nil, platformerr.Timeout(platformID, "test_connection",
				fmt.Sprintf("connection test timed out after %s", t.timeout))
		}
		return nil, platformerr.Transport(platformID, "test_connection", probeCtx.Err())
	}
}
