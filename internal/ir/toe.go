package ir

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Side identifies a foot.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ToeRef addresses one toe: the foot and a zero-based index, big toe first.
type ToeRef struct {
	Side  Side
	Index int
}

func (r ToeRef) String() string {
	return fmt.Sprintf("%s toe %d", r.Side, r.Index+1)
}

// ToeRefOf derives the toe a layer animates from its name.
// "left" anywhere in the name (any case) selects the left foot, otherwise
// the right. The digits of the name, read as one number, are the 1-based
// toe number.
func ToeRefOf(layerName string) (ToeRef, error) {
	var digits strings.Builder
	for _, r := range layerName {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ToeRef{}, fmt.Errorf("layer %q has no toe number", layerName)
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return ToeRef{}, fmt.Errorf("layer %q: toe number: %w", layerName, err)
	}

	ref := ToeRef{Side: Right, Index: n - 1}
	if strings.Contains(strings.ToLower(layerName), "left") {
		ref.Side = Left
	}
	return ref, nil
}

// IsSplayed reports whether a state name selects the splayed clip variant.
func IsSplayed(stateName string) bool {
	return strings.Contains(strings.ToLower(stateName), "splayed")
}
