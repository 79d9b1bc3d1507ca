package platform

import "strings"

// BuildEntityURL constructs the canonical deep-link URL for an entity.
//
// The base URL has at most one trailing slash stripped. The owning platform
// is resolved from the entity type's prefix when present, otherwise from the
// optional hint, otherwise the default platform is assumed. Path resolution
// tries the platform's dedicated entity path for the bare type first, then
// the platform-generic admin path when the type is known to the platform,
// and finally returns the base URL unchanged when the type is wholly
// unknown. The entity id is appended as the final path segment.
func BuildEntityURL(baseURL, entityType, id string, hint ...Type) string {
	base := strings.TrimSuffix(baseURL, "/")

	bare := entityType
	var def Definition
	if parsed := ParsePrefixedType(entityType); parsed != nil {
		bare = parsed.EntityType
		if d, err := GetDefinition(parsed.Platform); err == nil {
			def = d
		}
	} else if len(hint) > 0 {
		if d, err := GetDefinition(hint[0]); err == nil {
			def = d
		}
	}
	if def.Type == "" {
		def = Default()
	}

	path, ok := def.URLPatterns.EntityPaths[bare]
	if !ok {
		if !def.HasEntityType(bare) || def.URLPatterns.DefaultAdmin == "" {
			return base
		}
		path = def.URLPatterns.DefaultAdmin
	}

	if id == "" {
		return base + "/" + path
	}
	return base + "/" + path + "/" + id
}

// BuildAdminURL constructs a deep link into a platform admin category,
// e.g. the settings or connector screens. Unknown categories fall back to
// the platform's generic admin path, then to the base URL unchanged.
func BuildAdminURL(baseURL string, t Type, category string) string {
	base := strings.TrimSuffix(baseURL, "/")

	def, err := GetDefinition(t)
	if err != nil {
		return base
	}

	if path, ok := def.URLPatterns.AdminPaths[category]; ok {
		return base + "/" + path
	}
	if def.URLPatterns.DefaultAdmin != "" {
		return base + "/" + def.URLPatterns.DefaultAdmin
	}
	return base
}
