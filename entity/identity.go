package entity

import "github.com/zero-day-ai/nexus/platform"

// Color returns the display color for a record: the palette entry of the
// owning platform, resolved from the record's (possibly prefixed) type.
// Records whose type carries no recognized prefix belong to the default
// platform.
func Color(r Record) string {
	if parsed := platform.ParsePrefixedType(Type(r)); parsed != nil {
		if d, err := platform.GetDefinition(parsed.Platform); err == nil {
			return d.PrimaryColor
		}
	}
	return platform.Default().PrimaryColor
}

// URL returns the canonical deep link for a record hosted at baseURL,
// combining the record's extracted type and id with the owning platform's
// path templates.
func URL(baseURL string, r Record) string {
	return platform.BuildEntityURL(baseURL, Type(r), ID(r))
}

// DisplayLabel returns the human-readable label for the record's type,
// e.g. "OpenAEV Attack Pattern" for an "oaev-attack-pattern" record.
func DisplayLabel(r Record) string {
	return platform.FormatEntityTypeForDisplay(Type(r))
}
