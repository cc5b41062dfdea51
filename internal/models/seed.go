package models

// MaxSeed is the exclusive upper bound for randomly drawn base seeds.
// Kept within int32 range because the backend accepts 32-bit seeds.
const MaxSeed = 2147483647

// Seed is a tagged seed value: either "draw a random base seed" or a fixed,
// user-supplied one. It replaces the legacy -1 sentinel at the API boundary;
// the CLI still accepts -1 and maps it to RandomSeed.
type Seed struct {
	fixed bool
	value int64
}

// RandomSeed returns a Seed that instructs the orchestrator to draw a base
// seed uniformly from [0, MaxSeed).
func RandomSeed() Seed {
	return Seed{}
}

// FixedSeed returns a Seed pinned to the given value.
func FixedSeed(v int64) Seed {
	return Seed{fixed: true, value: v}
}

// ParseSeed maps the conventional wire form to a Seed: any negative value
// means "random", everything else is fixed. Values above MaxSeed are clamped
// so a fixed seed always fits the backend's 32-bit range; the clamped value
// is what gets sent and recorded.
func ParseSeed(v int64) Seed {
	if v < 0 {
		return RandomSeed()
	}
	if v > MaxSeed {
		v = MaxSeed
	}
	return FixedSeed(v)
}

// IsFixed reports whether the seed carries a user-supplied value.
func (s Seed) IsFixed() bool { return s.fixed }

// Value returns the fixed seed value; it is only meaningful when IsFixed.
func (s Seed) Value() int64 { return s.value }
