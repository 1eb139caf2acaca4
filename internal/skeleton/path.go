package skeleton

import "strings"

// DefaultRootMarker is the armature name animation paths are relative to.
const DefaultRootMarker = "Armature"

// RootMatch selects how an ancestor name is compared with the root marker.
type RootMatch string

const (
	MatchPrefix RootMatch = "prefix"
	MatchExact  RootMatch = "exact"
)

func (m RootMatch) matches(name, marker string) bool {
	if m == MatchExact {
		return name == marker
	}
	return strings.HasPrefix(name, marker)
}

// Path builds the animation path of b: its own name prefixed by each
// ancestor's name, up to and including the first ancestor matching marker.
// Without a matching ancestor every ancestor up to the hierarchy root is
// included.
func Path(b *Bone, marker string, match RootMatch) string {
	if b == nil {
		return ""
	}
	parts := []string{b.Name}
	for p := b.Parent; p != nil; p = p.Parent {
		parts = append(parts, p.Name)
		if match.matches(p.Name, marker) {
			break
		}
	}
	reverse(parts)
	return strings.Join(parts, "/")
}
