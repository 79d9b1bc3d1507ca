package platform

import (
	"fmt"
	"strings"

	"github.com/zero-day-ai/nexus/platformerr"
)

func init() {
	if err := validate(); err != nil {
		panic(fmt.Sprintf("platform: invalid definition table: %v", err))
	}
}

// validate checks the static table invariants: globally unique prefixes and
// exactly one default platform.
func validate() error {
	prefixes := make(map[string]Type)
	defaults := 0
	for _, d := range definitions {
		p := strings.ToLower(d.Prefix)
		if p == "" {
			return fmt.Errorf("platform %q has no prefix", d.Type)
		}
		if other, dup := prefixes[p]; dup {
			return fmt.Errorf("prefix %q registered for both %q and %q", p, other, d.Type)
		}
		prefixes[p] = d.Type
		if d.Default {
			defaults++
		}
	}
	if defaults != 1 {
		return fmt.Errorf("expected exactly one default platform, found %d", defaults)
	}
	return nil
}

// GetDefinition returns the definition for the given platform type.
// It fails with platformerr.ErrUnknownPlatform when the type is not registered.
func GetDefinition(t Type) (Definition, error) {
	for _, d := range definitions {
		if d.Type == t {
			return d, nil
		}
	}
	return Definition{}, platformerr.New("", "get_definition", platformerr.ErrCodeUnknownPlatform,
		fmt.Sprintf("unknown platform type %q", t)).WithCause(platformerr.ErrUnknownPlatform)
}

// ByPrefix returns the definition whose prefix matches the given string.
// The lookup is case-insensitive. The second return value is false when no
// definition carries the prefix.
func ByPrefix(prefix string) (Definition, bool) {
	p := strings.ToLower(prefix)
	for _, d := range definitions {
		if strings.ToLower(d.Prefix) == p {
			return d, true
		}
	}
	return Definition{}, false
}

// Default returns the default (unprefixed) platform definition.
func Default() Definition {
	for _, d := range definitions {
		if d.Default {
			return d
		}
	}
	// validate() guarantees one default exists.
	panic("platform: no default definition")
}

// All returns every registered definition in registration order.
// The returned slice is a copy; the definitions themselves are shared.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}
