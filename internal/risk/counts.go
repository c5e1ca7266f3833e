package risk

// Counts holds the number of classified call sites per tier for one blob of
// text, one file, or a whole scan.
type Counts struct {
	Safe    int `json:"safe"`
	Partial int `json:"partial"`
	Unsafe  int `json:"unsafe"`
}

func (c Counts) IsZero() bool {
	return c.Safe == 0 && c.Partial == 0 && c.Unsafe == 0
}

func (c Counts) Total() int {
	return c.Safe + c.Partial + c.Unsafe
}

// Add returns the component-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Safe:    c.Safe + o.Safe,
		Partial: c.Partial + o.Partial,
		Unsafe:  c.Unsafe + o.Unsafe,
	}
}

// Inc records one call site at tier t.
func (c *Counts) Inc(t Tier) {
	switch t {
	case Safe:
		c.Safe++
	case PartiallySafe:
		c.Partial++
	case Unsafe:
		c.Unsafe++
	}
}

// Get returns the count for tier t.
func (c Counts) Get(t Tier) int {
	switch t {
	case Safe:
		return c.Safe
	case PartiallySafe:
		return c.Partial
	case Unsafe:
		return c.Unsafe
	}
	return 0
}

// Worst is the most severe tier with a non-zero count. A zero Counts reports
// Safe; callers skip zero results before deriving a status.
func (c Counts) Worst() Tier {
	switch {
	case c.Unsafe > 0:
		return Unsafe
	case c.Partial > 0:
		return PartiallySafe
	default:
		return Safe
	}
}
