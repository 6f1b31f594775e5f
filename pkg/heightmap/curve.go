package heightmap

import (
	"sort"

	"landscape/internal/util"
)

// Key is one curve keyframe
type Key struct {
	Time  float32
	Value float32
}

// Curve is a keyframed 1D response. Between keys it interpolates linearly,
// or with smoothstep when Smooth is set; outside the key range it holds the
// first or last value. A curve without keys is the identity.
type Curve struct {
	keys   []Key
	Smooth bool
}

// NewCurve creates a curve; keys are sorted by time
func NewCurve(smooth bool, keys ...Key) Curve {
	sorted := make([]Key, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return Curve{keys: sorted, Smooth: smooth}
}

// LinearCurve maps [0,1] onto [0,1]
func LinearCurve() Curve {
	return NewCurve(false, Key{0, 0}, Key{1, 1})
}

// Keys returns a copy of the keyframes
func (c Curve) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Evaluate samples the curve at t
func (c Curve) Evaluate(t float32) float32 {
	switch len(c.keys) {
	case 0:
		return t
	case 1:
		return c.keys[0].Value
	}

	first, last := c.keys[0], c.keys[len(c.keys)-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// First key strictly after t
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time > t })
	a, b := c.keys[i-1], c.keys[i]
	u := util.InverseLerp(a.Time, b.Time, t)
	if c.Smooth {
		return util.SmoothStep(a.Value, b.Value, u)
	}
	return util.Lerp(a.Value, b.Value, u)
}
