package nexus

import (
	"github.com/zero-day-ai/nexus/entity"
	"github.com/zero-day-ai/nexus/platformerr"
)

// Response is the one stable wire contract between the core and its
// callers. Every Hub operation resolves to a Response; nothing ever
// panics or returns a raw error past this boundary.
type Response struct {
	// Success reports whether the operation produced usable data. Partial
	// aggregation results still count as success; per-platform failures
	// travel inside Data.
	Success bool `json:"success"`

	// Data carries the operation result when Success is true.
	Data any `json:"data,omitempty"`

	// Error carries a short human-readable reason when Success is false.
	Error string `json:"error,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps an error in a failure envelope, exposing only its message
// text.
func Fail(err error) Response {
	return Response{Success: false, Error: platformerr.UserMessage(err)}
}

// PlatformFailure is the serializable form of one platform's aggregation
// failure.
type PlatformFailure struct {
	PlatformID string `json:"platformId"`
	Error      string `json:"error"`
}

// AggregatedData is the envelope payload of a fan-out fetch: the merged,
// deduplicated, platform-stamped records plus the list of platforms that
// failed. A platform appearing in Errors contributed zero records.
type AggregatedData struct {
	Results []entity.Record   `json:"results"`
	Errors  []PlatformFailure `json:"errors"`
}
