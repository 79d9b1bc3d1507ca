// Package settings provides loading and lookup of per-platform instance
// configuration records.
//
// Each configured platform instance is described by one Platform record
// stored under its platform kind's settings key ("openctiPlatforms",
// "openaevPlatforms"). Storage itself belongs to the embedding application;
// this package defines the record shape, the Provider interface the
// connection layer consumes, and a YAML file provider for tooling and tests.
package settings

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Platform is one configured platform instance.
type Platform struct {
	// ID uniquely identifies this instance among all configured platforms.
	ID string `yaml:"id" json:"id"`

	// Name is the user-chosen display name for the instance.
	Name string `yaml:"name" json:"name"`

	// URL is the instance base URL.
	URL string `yaml:"url" json:"url"`

	// APIToken authenticates requests against the instance.
	APIToken string `yaml:"api_token" json:"apiToken"`

	// Enabled marks whether the instance participates in aggregation.
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Validate checks that the record carries the fields a client can be
// built from.
func (p Platform) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("platform settings missing id")
	}
	if p.URL == "" {
		return fmt.Errorf("platform %q settings missing url", p.ID)
	}
	return nil
}

// Provider exposes saved platform settings to the connection layer.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Platforms returns all instance records stored under the given
	// settings key, e.g. "openaevPlatforms".
	Platforms(ctx context.Context, settingsKey string) ([]Platform, error)
}

// FindByID returns the record with the given instance id, searching the
// given keys in order. The second return value is false when no key holds
// a matching record.
func FindByID(ctx context.Context, p Provider, id string, keys ...string) (Platform, bool, error) {
	for _, key := range keys {
		records, err := p.Platforms(ctx, key)
		if err != nil {
			return Platform{}, false, err
		}
		for _, rec := range records {
			if rec.ID == id {
				return rec, true, nil
			}
		}
	}
	return Platform{}, false, nil
}

// Static is an in-memory Provider backed by a fixed map of settings key to
// platform records. Useful for tests and for embedders that manage their
// own storage.
type Static map[string][]Platform

// Platforms implements Provider.
func (s Static) Platforms(_ context.Context, settingsKey string) ([]Platform, error) {
	return s[settingsKey], nil
}

// Load parses a YAML settings file mapping settings keys to platform
// record lists:
//
//	openctiPlatforms:
//	  - id: octi-prod
//	    name: Production CTI
//	    url: https://cti.example.org
//	    api_token: "..."
//	    enabled: true
func Load(path string) (map[string][]Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	out := make(map[string][]Platform)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	for key, records := range out {
		for _, rec := range records {
			if err := rec.Validate(); err != nil {
				return nil, fmt.Errorf("invalid record under %q: %w", key, err)
			}
		}
	}
	return out, nil
}

// NewFileProvider loads the given YAML settings file once and serves
// lookups from memory.
func NewFileProvider(path string) (Static, error) {
	loaded, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Static(loaded), nil
}
