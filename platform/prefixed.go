package platform

import "strings"

// ParsedType is the decoded form of a prefixed entity type.
type ParsedType struct {
	// Prefix is the matched platform prefix, in its registered casing.
	Prefix string

	// EntityType is the bare entity type with the prefix stripped.
	EntityType string

	// Platform is the platform kind the prefix belongs to.
	Platform Type
}

// ParsePrefixedType decodes a prefixed entity type string.
//
// It returns nil iff the string contains no registered prefix followed by
// "-"; such strings are bare types belonging to the default platform.
// Prefix matching is case-insensitive, so "OAEV-team" and "oaev-team"
// decode identically.
func ParsePrefixedType(s string) *ParsedType {
	lower := strings.ToLower(s)
	for _, d := range definitions {
		marker := strings.ToLower(d.Prefix) + "-"
		if strings.HasPrefix(lower, marker) {
			return &ParsedType{
				Prefix:     d.Prefix,
				EntityType: s[len(marker):],
				Platform:   d.Type,
			}
		}
	}
	return nil
}

// CreatePrefixedType encodes a bare entity type for the given platform.
//
// The default platform's types are carried bare, so for it the entity type
// is returned unchanged; every other platform yields "<prefix>-<type>".
// An unregistered platform type also yields the bare entity type, matching
// the total-parse contract on the read side.
func CreatePrefixedType(entityType string, t Type) string {
	d, err := GetDefinition(t)
	if err != nil || d.Default {
		return entityType
	}
	return d.Prefix + "-" + entityType
}

// GetDisplayType strips any recognized platform prefix from the given type
// string, returning the bare entity type. Unprefixed strings pass through
// unchanged.
func GetDisplayType(s string) string {
	if parsed := ParsePrefixedType(s); parsed != nil {
		return parsed.EntityType
	}
	return s
}

// FormatEntityTypeForDisplay converts a dash- or underscore-separated type
// identifier into a space-separated display label, capitalizing each word.
// For prefixed types the platform's display name is prepended:
//
//	FormatEntityTypeForDisplay("attack-pattern")      == "Attack Pattern"
//	FormatEntityTypeForDisplay("oaev-asset_group")    == "OpenAEV Asset Group"
func FormatEntityTypeForDisplay(s string) string {
	bare := s
	platformName := ""
	if parsed := ParsePrefixedType(s); parsed != nil {
		bare = parsed.EntityType
		if d, err := GetDefinition(parsed.Platform); err == nil {
			platformName = d.Name
		}
	}

	words := strings.FieldsFunc(bare, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	label := strings.Join(words, " ")

	if platformName != "" {
		if label == "" {
			return platformName
		}
		return platformName + " " + label
	}
	return label
}
