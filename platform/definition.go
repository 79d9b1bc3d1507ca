package platform

// Type identifies a supported platform kind.
type Type string

const (
	// TypeOpenCTI is the OpenCTI threat-intelligence platform. It is the
	// default platform: its entity types are carried without a prefix.
	TypeOpenCTI Type = "opencti"

	// TypeOpenAEV is the OpenAEV adversarial-exposure-validation platform.
	TypeOpenAEV Type = "openaev"
)

// String returns the string representation of the platform type.
func (t Type) String() string {
	return string(t)
}

// Feature is a capability flag advertised by a platform definition.
// Callers use feature flags to decide which operations to offer for a
// configured platform instance.
type Feature string

const (
	// FeatureSearch indicates the platform supports free-text entity search.
	FeatureSearch Feature = "search"

	// FeatureCreate indicates the platform supports entity creation.
	FeatureCreate Feature = "create"

	// FeatureScan indicates the platform can receive scanned observables
	// (e.g. from page or PDF scanning).
	FeatureScan Feature = "scan"

	// FeatureEnrichment indicates the platform exposes enrichment connectors.
	FeatureEnrichment Feature = "enrichment"
)

// URLPatterns holds the deep-link path layout of one platform kind.
//
// EntityPaths maps a bare entity type to the path under the platform base
// URL where that entity is rendered; the entity id is appended as the final
// path segment. AdminPaths maps an admin UI category to its path for callers
// that link into configuration screens. DefaultAdmin is the generic
// fallback used when an entity type is known to the platform but has no
// dedicated path.
type URLPatterns struct {
	EntityPaths  map[string]string
	AdminPaths   map[string]string
	DefaultAdmin string
}

// Definition is the immutable description of one platform kind.
//
// Exactly one definition is registered per Type, created at process start.
// Definitions must not be mutated after registration; lookup functions hand
// out the shared value.
type Definition struct {
	// Type is the platform kind identifier.
	Type Type

	// Prefix is the wire-format prefix used in prefixed entity types
	// (e.g. "oaev" in "oaev-team"). Globally unique across definitions.
	Prefix string

	// Name is the human-readable platform name (e.g. "OpenAEV").
	Name string

	// Default marks the platform whose entity types are carried bare.
	// Exactly one definition has Default set.
	Default bool

	// PrimaryColor and SecondaryColor are the platform brand colors used
	// for entity badges and list accents.
	PrimaryColor   string
	SecondaryColor string

	// EntityTypes is the set of bare entity types the platform serves.
	EntityTypes map[string]bool

	// URLPatterns describes how deep links into the platform UI are built.
	URLPatterns URLPatterns

	// Features is the set of capability flags the platform advertises.
	Features map[Feature]bool

	// UsesGraphQL is true when the platform API is GraphQL rather than REST.
	UsesGraphQL bool

	// LogoSuffix selects the icon asset for this platform.
	LogoSuffix string

	// SettingsKey is the key under which per-instance configuration records
	// for this platform kind are stored.
	SettingsKey string
}

// HasEntityType reports whether the platform serves the given bare entity type.
func (d Definition) HasEntityType(entityType string) bool {
	return d.EntityTypes[entityType]
}

// HasFeature reports whether the platform advertises the given capability.
func (d Definition) HasFeature(f Feature) bool {
	return d.Features[f]
}

// definitions is the static platform table, in registration order.
// Order matters for All(): callers enumerate platforms in this order.
var definitions = []Definition{
	{
		Type:           TypeOpenCTI,
		Prefix:         "octi",
		Name:           "OpenCTI",
		Default:        true,
		PrimaryColor:   "#0fbcff",
		SecondaryColor: "#001e3c",
		EntityTypes: map[string]bool{
			"Report":             true,
			"Grouping":           true,
			"Malware":            true,
			"Tool":               true,
			"Channel":            true,
			"Vulnerability":      true,
			"Attack-Pattern":     true,
			"Campaign":           true,
			"Intrusion-Set":      true,
			"Threat-Actor-Group": true,
			"Incident":           true,
			"Indicator":          true,
			"Observable":         true,
			"Note":               true,
			"Opinion":            true,
		},
		URLPatterns: URLPatterns{
			EntityPaths: map[string]string{
				"Report":             "dashboard/analyses/reports",
				"Grouping":           "dashboard/analyses/groupings",
				"Malware":            "dashboard/arsenal/malwares",
				"Tool":               "dashboard/arsenal/tools",
				"Channel":            "dashboard/arsenal/channels",
				"Vulnerability":      "dashboard/arsenal/vulnerabilities",
				"Attack-Pattern":     "dashboard/techniques/attack_patterns",
				"Campaign":           "dashboard/threats/campaigns",
				"Intrusion-Set":      "dashboard/threats/intrusion_sets",
				"Threat-Actor-Group": "dashboard/threats/threat_actors_group",
				"Incident":           "dashboard/events/incidents",
				"Indicator":          "dashboard/observations/indicators",
				"Observable":         "dashboard/observations/observables",
			},
			AdminPaths: map[string]string{
				"settings":   "dashboard/settings",
				"connectors": "dashboard/data/ingestion/connectors",
				"search":     "dashboard/search",
			},
			// OpenCTI resolves any entity id under /dashboard/id/<id>.
			DefaultAdmin: "dashboard/id",
		},
		Features: map[Feature]bool{
			FeatureSearch:     true,
			FeatureCreate:     true,
			FeatureScan:       true,
			FeatureEnrichment: true,
		},
		UsesGraphQL: true,
		LogoSuffix:  "opencti",
		SettingsKey: "openctiPlatforms",
	},
	{
		Type:           TypeOpenAEV,
		Prefix:         "oaev",
		Name:           "OpenAEV",
		PrimaryColor:   "#e0211d",
		SecondaryColor: "#4a148c",
		EntityTypes: map[string]bool{
			"Asset":         true,
			"AssetGroup":    true,
			"Player":        true,
			"Team":          true,
			"Organization":  true,
			"Scenario":      true,
			"Exercise":      true,
			"AttackPattern": true,
			"Finding":       true,
			"Vulnerability": true,
			"Payload":       true,
		},
		URLPatterns: URLPatterns{
			EntityPaths: map[string]string{
				"Asset":         "admin/assets/endpoints",
				"AssetGroup":    "admin/asset_groups",
				"Player":        "admin/players",
				"Team":          "admin/teams",
				"Organization":  "admin/organizations",
				"Scenario":      "admin/scenarios",
				"Exercise":      "admin/simulations",
				"AttackPattern": "admin/attack_patterns",
				"Finding":       "admin/findings",
				"Vulnerability": "admin/vulnerabilities",
				"Payload":       "admin/payloads",
			},
			AdminPaths: map[string]string{
				"settings":  "admin/settings",
				"injectors": "admin/integrations/injectors",
			},
			DefaultAdmin: "admin",
		},
		Features: map[Feature]bool{
			FeatureSearch: true,
			FeatureCreate: true,
			FeatureScan:   true,
		},
		UsesGraphQL: false,
		LogoSuffix:  "openaev",
		SettingsKey: "openaevPlatforms",
	},
}
