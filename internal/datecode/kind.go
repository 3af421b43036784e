package datecode

import (
	"fmt"
	"strings"
)

// Kind is the conveyance mode that determines a code's shape.
type Kind int

const (
	Air Kind = iota
	Surface
	Ocean
)

// Kinds lists every conveyance kind in declaration order.
var Kinds = []Kind{Air, Surface, Ocean}

func (k Kind) String() string {
	switch k {
	case Air:
		return "air"
	case Surface:
		return "surface"
	case Ocean:
		return "ocean"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k == Air || k == Surface || k == Ocean
}

// ParseKind converts a conveyance name (case-insensitive, surrounding space
// ignored) to a Kind. Unrecognized names are an error rather than a silent
// fallback to Air.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "air":
		return Air, nil
	case "surface":
		return Surface, nil
	case "ocean":
		return Ocean, nil
	default:
		return 0, fmt.Errorf("parse kind %q: %w", s, ErrUnknownKind)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal %s: %w", k, ErrUnknownKind)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
