package util

import (
	"math"
	"time"
)

// Float is the set of scalar types the helpers accept
type Float interface {
	~float32 | ~float64
}

// Lerp performs linear interpolation between a and b with t in [0,1]
func Lerp[T Float](a, b, t T) T {
	return a + t*(b-a)
}

// InverseLerp returns where value lies between a and b, clamped to [0,1].
// A degenerate range yields 0.
func InverseLerp[T Float](a, b, value T) T {
	if a == b {
		return 0
	}
	return Clamp((value-a)/(b-a), 0, 1)
}

// Clamp restricts a value to be between min and max
func Clamp[T Float](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Map remaps a value from one range to another
func Map[T Float](value, inMin, inMax, outMin, outMax T) T {
	return outMin + InverseLerp(inMin, inMax, value)*(outMax-outMin)
}

// SmoothStep performs cubic interpolation between a and b
func SmoothStep[T Float](a, b, t T) T {
	t = Clamp(t, 0, 1)
	t = t * t * (3 - 2*t)
	return a + t*(b-a)
}

// Distance2D calculates the Euclidean distance between two 2D points
func Distance2D[T Float](x1, y1, x2, y2 T) T {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return T(math.Sqrt(dx*dx + dy*dy))
}

// PowSafe raises base to exp, returning 0 for a zero base so that exp <= 0
// never produces Inf or NaN.
func PowSafe[T Float](base, exp T) T {
	if base == 0 {
		return 0
	}
	return T(math.Pow(float64(base), float64(exp)))
}

// TimeTrack returns the elapsed time since start in milliseconds.
// Usage: defer func() { log.Debugf("took %.1fms", TimeTrack(start)) }()
func TimeTrack(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
