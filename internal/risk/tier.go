package risk

import (
	"fmt"
	"strings"
)

// Tier is the severity of a call site or project. Values are ordered so that a
// larger Tier is more severe.
type Tier int

const (
	Safe Tier = iota
	PartiallySafe
	Unsafe
)

// Tiers lists every tier from least to most severe.
var Tiers = []Tier{Safe, PartiallySafe, Unsafe}

func (t Tier) String() string {
	switch t {
	case Safe:
		return "safe"
	case PartiallySafe:
		return "partially_safe"
	case Unsafe:
		return "unsafe"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	return t >= Safe && t <= Unsafe
}

// Join returns the more severe of a and b.
func Join(a, b Tier) Tier {
	if b > a {
		return b
	}
	return a
}

// ParseTier accepts the canonical names plus a few spellings seen in CLI input
// ("partial", "partially-safe"). Matching is case-insensitive.
func ParseTier(raw string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "safe":
		return Safe, nil
	case "partially_safe", "partially-safe", "partial":
		return PartiallySafe, nil
	case "unsafe":
		return Unsafe, nil
	}
	return Safe, fmt.Errorf("unknown tier %q (must be one of: safe, partially_safe, unsafe)", raw)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
