package office

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ID is a canonical office identifier in <Floor>-<Unit> form, for example
// "B-1" or "A-c". Floors B and C use numeric units, floor A uses lowercase
// letter units. Values are produced by Normalizer; raw strings must never be
// compared directly.
type ID string

// Virtual is the reserved identifier for telehealth sessions that occupy no
// physical room.
const Virtual ID = "VIRTUAL"

// DefaultID is the fallback when an identifier cannot be interpreted. The
// fallback is configurable per deployment; B-1 is the standard intake room.
const DefaultID ID = "B-1"

func (id ID) String() string { return string(id) }

// Floor returns the floor component, or "" for the virtual office.
func (id ID) Floor() string {
	s := string(id)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return ""
}

var canonicalPattern = regexp.MustCompile(`^([A-Z])-([A-Za-z0-9]+)$`)

// Normalizer canonicalizes free-form office identifiers. The zero value uses
// DefaultID as its fallback.
type Normalizer struct {
	fallback ID
}

// NewNormalizer creates a normalizer with a configurable fallback id. An
// empty fallback means DefaultID.
func NewNormalizer(fallback ID) Normalizer {
	if fallback == "" {
		fallback = DefaultID
	}
	return Normalizer{fallback: fallback}
}

// Normalize canonicalizes a raw office identifier. It is total (never
// returns an invalid ID) and idempotent: Normalize(Normalize(x)) ==
// Normalize(x). Unknown floors, empty input, and unit values outside the
// floor's range all map to the fallback id.
func (n Normalizer) Normalize(raw string) ID {
	fallback := n.fallback
	if fallback == "" {
		fallback = DefaultID
	}

	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == string(Virtual) {
		return Virtual
	}

	var floor, unit string
	if m := canonicalPattern.FindStringSubmatch(s); m != nil {
		floor, unit = m[1], strings.ToUpper(m[2])
	} else {
		// Free-form input like "b1" or "B 2": take the first two
		// alphanumeric characters as floor and unit.
		var chars []rune
		for _, r := range s {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				chars = append(chars, r)
			}
			if len(chars) == 2 {
				break
			}
		}
		if len(chars) < 2 {
			return fallback
		}
		floor, unit = string(chars[0]), string(chars[1])
	}

	switch floor {
	case "A":
		return normalizeFloorA(unit, fallback)
	case "B", "C":
		return normalizeNumericFloor(floor, unit, fallback)
	default:
		return fallback
	}
}

// normalizeFloorA produces A-<lowercase letter> units. Numeric units 1-9 map
// to letters a-i.
func normalizeFloorA(unit string, fallback ID) ID {
	if unit == "" {
		return fallback
	}
	if isDigits(unit) {
		v, err := strconv.Atoi(unit)
		if err != nil || v < 1 || v > 9 {
			return fallback
		}
		return ID("A-" + string(rune('a'+v-1)))
	}
	return ID("A-" + strings.ToLower(string(unit[0])))
}

// normalizeNumericFloor produces <floor>-<digits> units. Alphabetic units
// map to their 1-based alphabet position.
func normalizeNumericFloor(floor, unit string, fallback ID) ID {
	if unit == "" {
		return fallback
	}
	if isDigits(unit) {
		v, err := strconv.Atoi(unit)
		if err != nil || v < 1 {
			return fallback
		}
		return ID(floor + "-" + strconv.Itoa(v))
	}
	c := unit[0]
	if c < 'A' || c > 'Z' {
		return fallback
	}
	return ID(floor + "-" + strconv.Itoa(int(c-'A')+1))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
