// Package platform defines the static registry of supported platform kinds.
//
// A platform is an independently hosted service with its own API and entity
// schema, for example an OpenCTI threat-intelligence instance or an OpenAEV
// simulation instance. The registry holds one immutable Definition per kind,
// created at process start, and provides pure lookup functions over it:
// prefix resolution, prefixed-type encoding and parsing, deep-link URL
// construction, and display-label formatting.
//
// Entity types are carried across the wire as "prefixed types". A prefixed
// type encodes both the platform and the entity type as "<prefix>-<type>",
// for example "oaev-team". Types belonging to the default platform (OpenCTI)
// are carried bare, with no prefix, so "Malware" and "oaev-asset" are both
// well-formed. Parsing is total: any string either resolves to a registered
// prefix or is treated as a bare default-platform type.
//
// No function in this package performs I/O or holds mutable state.
package platform
