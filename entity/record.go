package entity

import "strings"

// Unknown is the sentinel returned when no candidate field matches.
const Unknown = "Unknown"

// PlatformIDKey is the key under which aggregation stamps the originating
// platform instance id on each merged record.
const PlatformIDKey = "platformId"

// Record is one platform entity as returned over the wire: an open,
// heterogeneous key/value bag with no fixed schema. Records must only be
// interpreted through the accessor functions in this package.
type Record map[string]any

// Clone returns a shallow copy of the record. Aggregation clones before
// stamping so caller-owned records are never mutated.
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// PlatformID returns the platform instance id stamped on the record by
// aggregation, or the empty string for unstamped records.
func (r Record) PlatformID() string {
	return stringAt(r, PlatformIDKey)
}

// stringAt resolves a possibly dotted key path against the record and
// returns its value as a string. Nested maps are traversed one path
// segment at a time ("representative.main" reads r["representative"]["main"]).
// Missing keys, nil values and non-string leaves yield the empty string.
func stringAt(r Record, path string) string {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			if rec, isRec := cur.(Record); isRec {
				m = map[string]any(rec)
			} else {
				return ""
			}
		}
		cur, ok = m[seg]
		if !ok {
			return ""
		}
	}
	s, ok := cur.(string)
	if !ok || s == "" {
		return ""
	}
	return s
}

// first returns the value of the first candidate field present on the
// record, or the empty string when none match.
func first(r Record, candidates []string) string {
	for _, c := range candidates {
		if v := stringAt(r, c); v != "" {
			return v
		}
	}
	return ""
}

// Candidate field lists, in fixed precedence order. The order is a
// compatibility contract: more specific fields shadow generic ones.
var (
	idFields   = []string{"id", "standard_id", "entityId", "entity_id", "_id"}
	nameFields = []string{"name", "value", "representative.main", "entity_name"}
	typeFields = []string{"type", "entity_type", "entityType", "_type"}
)

// ID extracts a stable entity identifier from the record, trying each
// candidate field in precedence order. It returns the empty string when no
// candidate matches; callers must tolerate partially-shaped records from
// heterogeneous sources, so a missing id is best-effort data, not an error.
func ID(r Record) string {
	return first(r, idFields)
}

// Name extracts a display name from the record, trying each candidate
// field in precedence order and returning "Unknown" when none match.
func Name(r Record) string {
	if v := first(r, nameFields); v != "" {
		return v
	}
	return Unknown
}

// Type extracts the entity type from the record, trying each candidate
// field in precedence order and returning "Unknown" when none match.
func Type(r Record) string {
	if v := first(r, typeFields); v != "" {
		return v
	}
	return Unknown
}
