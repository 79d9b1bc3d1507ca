// Package client defines the platform client capability contract and the
// keyed registry of configured client instances.
//
// A Client is the capability object for one configured platform instance:
// it knows how to fetch, search, create and probe that instance. Transport,
// authentication and retry behavior live behind the interface and are owned
// by the connection-management layer; aggregation only borrows clients for
// the duration of one call and never stores them.
//
// The Registry maps platform instance ids to clients and preserves
// insertion order. Order is part of the observable contract: aggregation
// uses it for deduplication tie-breaks and for the "first available
// platform" fallback, so two registries with the same entries in a
// different order are not interchangeable.
package client

import (
	"context"
	"sync"

	"github.com/zero-day-ai/nexus/entity"
	"github.com/zero-day-ai/nexus/platformerr"
)

// Client is the capability contract one configured platform instance
// exposes. All operations are context-bound; implementations must honor
// cancellation and deadlines. Any operation may fail, and the failure
// should carry a human-readable message.
type Client interface {
	// FetchEntities returns all entities the platform serves for its
	// primary collection.
	FetchEntities(ctx context.Context) ([]entity.Record, error)

	// SearchEntities returns entities matching a free-text term.
	SearchEntities(ctx context.Context, term string) ([]entity.Record, error)

	// CreateEntity creates an entity on the platform and returns the
	// created record as the platform reports it.
	CreateEntity(ctx context.Context, r entity.Record) (entity.Record, error)

	// TestConnection probes connectivity and returns platform-reported
	// metadata (version, instance name, ...) on success.
	TestConnection(ctx context.Context) (entity.Record, error)
}

// Handle pairs a platform instance id with its client. Handles are
// borrowed references: the registry owns the mapping, the connection
// manager owns the clients.
type Handle struct {
	PlatformID string
	Client     Client
}

// Registry is an insertion-ordered mapping of platform instance id to
// client. It is written only by the connection-management layer when the
// user edits configuration, and read concurrently by in-flight aggregation
// calls; an RWMutex serializes writers against readers.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	clients map[string]Client
}

// NewRegistry returns an empty client registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Set registers a client under the given platform instance id. Re-setting
// an existing id replaces the client but keeps its original position in
// iteration order.
func (r *Registry) Set(platformID string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[platformID]; !exists {
		r.order = append(r.order, platformID)
	}
	r.clients[platformID] = c
}

// Delete removes the client registered under the given id, if any.
func (r *Registry) Delete(platformID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[platformID]; !exists {
		return
	}
	delete(r.clients, platformID)
	for i, id := range r.order {
		if id == platformID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the client registered under the given id.
func (r *Registry) Get(platformID string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[platformID]
	return c, ok
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Entries returns a snapshot of all handles in insertion order. The
// snapshot is stable for the duration of one aggregation call even if the
// registry is edited concurrently.
func (r *Registry) Entries() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handle, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Handle{PlatformID: id, Client: r.clients[id]})
	}
	return out
}

// CheckConfigured fails with platformerr.ErrNotConfigured when the registry
// holds no clients.
func (r *Registry) CheckConfigured() error {
	if r.Len() == 0 {
		return platformerr.New("", "check_configured", platformerr.ErrCodeNotConfigured,
			"no platforms configured").WithCause(platformerr.ErrNotConfigured)
	}
	return nil
}

// GetOrError returns the client registered under the given id, failing
// with platformerr.ErrPlatformNotFound when it is absent.
func (r *Registry) GetOrError(platformID string) (Client, error) {
	c, ok := r.Get(platformID)
	if !ok {
		return nil, platformerr.New(platformID, "get_client", platformerr.ErrCodePlatformNotFound,
			"platform "+platformID+" is not configured").WithCause(platformerr.ErrPlatformNotFound)
	}
	return c, nil
}

// Target resolves the handle an operation should run against: the named
// platform when platformID is non-empty, otherwise the first registered
// entry in insertion order. It fails with ErrNotConfigured on an empty
// registry and ErrPlatformNotFound when a named platform is absent.
func (r *Registry) Target(platformID string) (Handle, error) {
	if err := r.CheckConfigured(); err != nil {
		return Handle{}, err
	}
	if platformID != "" {
		c, err := r.GetOrError(platformID)
		if err != nil {
			return Handle{}, err
		}
		return Handle{PlatformID: platformID, Client: c}, nil
	}
	return r.Entries()[0], nil
}
