package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/nexus/client"
	"github.com/zero-day-ai/nexus/entity"
	"github.com/zero-day-ai/nexus/platformerr"
)

// DefaultTimeout bounds each per-platform call when the caller does not
// supply its own deadline.
const DefaultTimeout = 10 * time.Second

// FetchFunc is the operation fanned out to each client during a fetch.
type FetchFunc func(ctx context.Context, c client.Client) ([]entity.Record, error)

// SearchFunc is the operation fanned out to each client during a search.
type SearchFunc func(ctx context.Context, c client.Client) ([]entity.Record, error)

// PlatformError records one platform's failure during aggregation.
type PlatformError struct {
	// PlatformID is the id of the platform instance that failed.
	PlatformID string `json:"platformId"`

	// Err is the structured failure; only its message may be shown to users.
	Err error `json:"-"`
}

// Message returns the short human-readable failure text.
func (e PlatformError) Message() string {
	return platformerr.UserMessage(e.Err)
}

// Result is the outcome of one fan-out invocation. Every record in Results
// is stamped with exactly one originating platform id; a platform that
// appears in Errors contributes zero records.
type Result struct {
	Results []entity.Record `json:"results"`
	Errors  []PlatformError `json:"errors"`
}

// Orchestrator coordinates parallel fan-out calls over a client registry.
// It holds no per-invocation state and is safe for concurrent use.
type Orchestrator struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	timeout time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger used for swallowed search failures
// and per-call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Each invocation opens a span,
// with one child span per platform call.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// WithTimeout sets the default per-call timeout used when an invocation
// does not supply one.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// New creates an Orchestrator with the provided options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("nexus/aggregate")
	}
	return o
}

// outcome is one settled per-platform call.
type outcome struct {
	records []entity.Record
	err     error
}

// call runs fn against one client, racing it with the per-call deadline.
// The deadline is carried on the call's context, so a cooperating transport
// cancels its own work; a client that ignores the context is abandoned at
// the deadline and its eventual result discarded.
func (o *Orchestrator) call(ctx context.Context, h client.Handle, op string, fn FetchFunc, timeout time.Duration) outcome {
	if timeout <= 0 {
		timeout = o.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	callCtx, span := o.tracer.Start(callCtx, "aggregate."+op,
		trace.WithAttributes(attribute.String("platform.id", h.PlatformID)))
	defer span.End()

	done := make(chan outcome, 1)
	go func() {
		records, err := fn(callCtx, h.Client)
		done <- outcome{records: records, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return outcome{err: platformerr.Transport(h.PlatformID, op, out.err)}
		}
		return out
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return outcome{err: platformerr.Timeout(h.PlatformID, op,
				fmt.Sprintf("%s timed out after %s", op, timeout))}
		}
		return outcome{err: platformerr.Transport(h.PlatformID, op, callCtx.Err())}
	}
}

// fanOut issues fn against every handle without awaiting any of them, then
// joins. Slot order matches the handle order, so merge passes downstream
// see registry insertion order regardless of completion timing.
func (o *Orchestrator) fanOut(ctx context.Context, handles []client.Handle, op string, fn FetchFunc, timeout time.Duration) []outcome {
	outcomes := make([]outcome, len(handles))
	var wg sync.WaitGroup
	for i, h := range handles {
		wg.Add(1)
		go func(i int, h client.Handle) {
			defer wg.Done()
			outcomes[i] = o.call(ctx, h, op, fn, timeout)
		}(i, h)
	}
	wg.Wait()
	return outcomes
}

// stamp clones the record and marks it with the originating platform id.
func stamp(r entity.Record, platformID string) entity.Record {
	out := r.Clone()
	out[entity.PlatformIDKey] = platformID
	return out
}

// FetchAll fans fn out to every registered client concurrently and merges
// the results.
//
// Each call races a timeout of the given duration (DefaultTimeout when
// zero); a client that exceeds it or errors is recorded in Result.Errors
// and contributes no records, without aborting its siblings. After all
// calls settle, records are merged in registry insertion order and
// deduplicated by extracted entity id: the first platform to produce a
// given id wins, later duplicates are dropped, not merged. Every surviving
// record is stamped with its platform id.
//
// FetchAll never fails as a whole; per-platform failure is always folded
// into the returned error list. An empty registry yields an empty result.
func (o *Orchestrator) FetchAll(ctx context.Context, reg *client.Registry, fn FetchFunc, timeout time.Duration) Result {
	handles := reg.Entries()

	ctx, span := o.tracer.Start(ctx, "aggregate.fetch_all",
		trace.WithAttributes(
			attribute.String("invocation.id", uuid.NewString()),
			attribute.Int("platform.count", len(handles)),
		))
	defer span.End()

	outcomes := o.fanOut(ctx, handles, "fetch", fn, timeout)

	result := Result{Results: []entity.Record{}, Errors: []PlatformError{}}
	seen := make(map[string]bool)
	for i, h := range handles {
		out := outcomes[i]
		if out.err != nil {
			o.logger.Warn("platform fetch failed",
				"platform", h.PlatformID,
				"error", out.err)
			result.Errors = append(result.Errors, PlatformError{PlatformID: h.PlatformID, Err: out.err})
			continue
		}
		for _, r := range out.records {
			id := entity.ID(r)
			if seen[id] {
				continue
			}
			seen[id] = true
			result.Results = append(result.Results, stamp(r, h.PlatformID))
		}
	}

	span.SetAttributes(
		attribute.Int("result.count", len(result.Results)),
		attribute.Int("error.count", len(result.Errors)),
	)
	return result
}

// Search fans fn out with the same per-call timeout discipline as FetchAll
// but deliberately skips deduplication: the same real-world entity may
// exist once per platform, and search preserves that signal.
//
// When platformID is non-empty only that client is queried, still through
// the timeout race for contract uniformity; a missing platform fails with
// platformerr.ErrPlatformNotFound. When platformID is empty every
// registered client is queried. A client that times out or errors
// contributes an empty result silently: the failure is logged, not
// surfaced, so a partial search degrades gracefully.
func (o *Orchestrator) Search(ctx context.Context, reg *client.Registry, platformID string, fn SearchFunc, timeout time.Duration) ([]entity.Record, error) {
	var handles []client.Handle
	if platformID != "" {
		c, err := reg.GetOrError(platformID)
		if err != nil {
			return nil, err
		}
		handles = []client.Handle{{PlatformID: platformID, Client: c}}
	} else {
		handles = reg.Entries()
	}

	ctx, span := o.tracer.Start(ctx, "aggregate.search",
		trace.WithAttributes(
			attribute.String("invocation.id", uuid.NewString()),
			attribute.Int("platform.count", len(handles)),
		))
	defer span.End()

	outcomes := o.fanOut(ctx, handles, "search", FetchFunc(fn), timeout)

	results := []entity.Record{}
	for i, h := range handles {
		out := outcomes[i]
		if out.err != nil {
			o.logger.Warn("platform search failed",
				"platform", h.PlatformID,
				"error", out.err)
			continue
		}
		for _, r := range out.records {
			results = append(results, stamp(r, h.PlatformID))
		}
	}

	span.SetAttributes(attribute.Int("result.count", len(results)))
	return results, nil
}

// FetchSingle runs fn against one client with no timeout race baked in;
// the caller controls timing through ctx. On failure it returns a typed
// platform error preserving the underlying message rather than panicking
// or losing context. Returned records are stamped with the platform id.
func (o *Orchestrator) FetchSingle(ctx context.Context, c client.Client, platformID string, fn FetchFunc) ([]entity.Record, error) {
	ctx, span := o.tracer.Start(ctx, "aggregate.fetch_single",
		trace.WithAttributes(attribute.String("platform.id", platformID)))
	defer span.End()

	records, err := fn(ctx, c)
	if err != nil {
		return nil, platformerr.Transport(platformID, "fetch", err)
	}

	out := make([]entity.Record, 0, len(records))
	for _, r := range records {
		out = append(out, stamp(r, platformID))
	}
	return out, nil
}
