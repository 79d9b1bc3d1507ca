package entity

import "strings"

// Kind is the explicit tag identifying an OpenAEV entity kind. OAEV records
// are never sniffed; callers must know which kind they hold and pass the
// tag explicitly.
type Kind string

const (
	KindAsset         Kind = "asset"
	KindAssetGroup    Kind = "asset-group"
	KindPlayer        Kind = "player"
	KindTeam          Kind = "team"
	KindOrganization  Kind = "organization"
	KindScenario      Kind = "scenario"
	KindExercise      Kind = "exercise"
	KindAttackPattern Kind = "attack-pattern"
	KindFinding       Kind = "finding"
	KindVulnerability Kind = "vulnerability"
	KindPayload       Kind = "payload"
)

// oaevKindSpec holds the per-kind extraction rules: ordered candidate
// fields for name and id, the not-found display label, the admin deep-link
// path segment, and the palette color.
type oaevKindSpec struct {
	nameFields  []string
	idFields    []string
	unknownName string
	urlPath     string
	color       string
}

// oaevFallbackColor is the single shared color for unrecognized kinds.
const oaevFallbackColor = "#607d8b"

var oaevKinds = map[Kind]oaevKindSpec{
	KindAsset: {
		nameFields:  []string{"asset_name", "endpoint_name", "name"},
		idFields:    []string{"asset_id", "id"},
		unknownName: "Unknown Asset",
		urlPath:     "admin/assets/endpoints",
		color:       "#4caf50",
	},
	KindAssetGroup: {
		nameFields:  []string{"asset_group_name", "name"},
		idFields:    []string{"asset_group_id", "id"},
		unknownName: "Unknown Asset Group",
		urlPath:     "admin/asset_groups",
		color:       "#009688",
	},
	KindPlayer: {
		nameFields:  []string{"user_email", "user_name", "name"},
		idFields:    []string{"user_id", "id"},
		unknownName: "Unknown Player",
		urlPath:     "admin/players",
		color:       "#00bcd4",
	},
	KindTeam: {
		nameFields:  []string{"team_name", "name"},
		idFields:    []string{"team_id", "id"},
		unknownName: "Unknown Team",
		urlPath:     "admin/teams",
		color:       "#2196f3",
	},
	KindOrganization: {
		nameFields:  []string{"organization_name", "name"},
		idFields:    []string{"organization_id", "id"},
		unknownName: "Unknown Organization",
		urlPath:     "admin/organizations",
		color:       "#3f51b5",
	},
	KindScenario: {
		nameFields:  []string{"scenario_name", "name"},
		idFields:    []string{"scenario_id", "id"},
		unknownName: "Unknown Scenario",
		urlPath:     "admin/scenarios",
		color:       "#9c27b0",
	},
	KindExercise: {
		nameFields: []string{"exercise_name", "name"},
		idFields:   []string{"exercise_id", "id"},
		// Exercises are rendered as "simulations" in the OpenAEV UI, so the
		// not-found label deliberately breaks the "Unknown <Kind>" pattern.
		unknownName: "Unknown Simulation",
		urlPath:     "admin/simulations",
		color:       "#e91e63",
	},
	KindAttackPattern: {
		nameFields:  []string{"attack_pattern_name", "name"},
		idFields:    []string{"attack_pattern_id", "id"},
		unknownName: "Unknown Attack Pattern",
		urlPath:     "admin/attack_patterns",
		color:       "#ff5722",
	},
	KindFinding: {
		nameFields:  []string{"finding_value", "finding_name", "name"},
		idFields:    []string{"finding_id", "id"},
		unknownName: "Unknown Finding",
		urlPath:     "admin/findings",
		color:       "#ff9800",
	},
	KindVulnerability: {
		nameFields:  []string{"vulnerability_name", "name"},
		idFields:    []string{"vulnerability_id", "id"},
		unknownName: "Unknown Vulnerability",
		urlPath:     "admin/vulnerabilities",
		color:       "#f44336",
	},
	KindPayload: {
		nameFields:  []string{"payload_name", "name"},
		idFields:    []string{"payload_id", "id"},
		unknownName: "Unknown Payload",
		urlPath:     "admin/payloads",
		color:       "#795548",
	},
}

// OAEVName extracts the display name of an OpenAEV record of the given
// kind, applying the kind-specific candidate-field order. When no candidate
// matches, the kind's not-found label is returned ("Unknown Team",
// "Unknown Simulation", ...). Unrecognized kinds fall back to the generic
// Name accessor.
func OAEVName(kind Kind, r Record) string {
	spec, ok := oaevKinds[kind]
	if !ok {
		return Name(r)
	}
	if v := first(r, spec.nameFields); v != "" {
		return v
	}
	return spec.unknownName
}

// OAEVID extracts the stable identifier of an OpenAEV record of the given
// kind, applying the kind-specific candidate-field order. Unrecognized
// kinds fall back to the generic ID accessor.
func OAEVID(kind Kind, r Record) string {
	spec, ok := oaevKinds[kind]
	if !ok {
		return ID(r)
	}
	return first(r, spec.idFields)
}

// OAEVURL builds the OpenAEV admin deep link for an entity of the given
// kind. The base URL has at most one trailing slash stripped and the id is
// appended as the final path segment. Unmapped kinds return the base URL
// unchanged.
func OAEVURL(baseURL string, kind Kind, id string) string {
	spec, ok := oaevKinds[kind]
	if !ok {
		return baseURL
	}
	base := strings.TrimSuffix(baseURL, "/")
	if id == "" {
		return base + "/" + spec.urlPath
	}
	return base + "/" + spec.urlPath + "/" + id
}

// OAEVColor returns the fixed palette entry for the given kind, with a
// single shared fallback color for unrecognized kinds.
func OAEVColor(kind Kind) string {
	if spec, ok := oaevKinds[kind]; ok {
		return spec.color
	}
	return oaevFallbackColor
}

// canonicalClasses maps source-system class names to their canonical
// OpenAEV entity names. Already-canonical names pass through unchanged.
var canonicalClasses = map[string]string{
	"Endpoint": "Asset",
	"User":     "Player",
}

// OAEVTypeFromClass derives the canonical entity type from a source-system
// class name. Package qualifiers are stripped (everything up to and
// including the last "."), then known source class names are canonicalized:
//
//	OAEVTypeFromClass("io.openaev.model.Endpoint") == "Asset"
//	OAEVTypeFromClass("Team")                      == "Team"
func OAEVTypeFromClass(className string) string {
	name := className
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if canonical, ok := canonicalClasses[name]; ok {
		return canonical
	}
	return name
}
