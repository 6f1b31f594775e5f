package heightmap

import (
	"fmt"
	"math"

	noise "landscape/internal/math"
	"landscape/internal/util"
)

// Layer contributes a procedural pattern to a height field in place.
// Generating twice with the same parameters on the same input gives the same output.
type Layer interface {
	Kind() Kind
	Blending() Blend
	Generate(field *HeightField) error
}

// NoiseLayer is fractal coherent noise normalized to [0,1]
type NoiseLayer struct {
	Blend
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Seed        int64
	OffsetX     float64
	OffsetY     float64
	Basis       string // value, perlin, simplex
}

// Kind returns KindNoise
func (l *NoiseLayer) Kind() Kind { return KindNoise }

// Blending returns the layer's compositing settings
func (l *NoiseLayer) Blending() Blend { return l.Blend }

// Generate blends the noise into field
func (l *NoiseLayer) Generate(field *HeightField) error {
	if l.Scale <= 0 {
		return fmt.Errorf("noise layer: scale must be positive, got %v", l.Scale)
	}

	basis, err := noise.NewBasis(l.Basis, l.Seed)
	if err != nil {
		return fmt.Errorf("noise layer: %w", err)
	}
	fractal := noise.NewFractal(basis, l.Octaves, l.Persistence, l.Lacunarity, l.Seed, l.OffsetX, l.OffsetY)
	norm := fractal.MaxAmplitude()

	// Sample around the field centre so scale zooms about the middle
	halfW := float64(field.Width) / 2
	halfH := float64(field.Height) / 2

	l.draw(field, func(x, y int) float32 {
		sx := (float64(x) - halfW) / l.Scale
		sy := (float64(y) - halfH) / l.Scale
		return float32(fractal.Sample(sx, sy) / norm)
	})
	return nil
}

// RadialGradient evaluates a response curve against distance from a centre,
// mapped to [-1,1]
type RadialGradient struct {
	Blend
	OffsetX float64
	OffsetY float64
	Radius  float64
	Curve   Curve
}

// Kind returns KindRadialGradient
func (l *RadialGradient) Kind() Kind { return KindRadialGradient }

// Blending returns the layer's compositing settings
func (l *RadialGradient) Blending() Blend { return l.Blend }

// Generate blends the gradient into field
func (l *RadialGradient) Generate(field *HeightField) error {
	if l.Radius <= 0 {
		return fmt.Errorf("radial gradient: radius must be positive, got %v", l.Radius)
	}

	cx := float64(field.Width)/2 + l.OffsetX
	cy := float64(field.Height)/2 + l.OffsetY

	l.draw(field, func(x, y int) float32 {
		d := util.Distance2D(cx, cy, float64(x), float64(y))
		v := l.Curve.Evaluate(float32(1 - d/l.Radius))
		return util.Clamp(v, 0, 1)*2 - 1
	})
	return nil
}

// Falloff is the edge mask d^a / (d^a + (b - b*d)^a) per axis, combined by max.
// It is 0 at the centre and 1 at the edges.
type Falloff struct {
	Blend
	Steepness float64 // a
	Tightness float64 // b
}

// Kind returns KindFalloff
func (l *Falloff) Kind() Kind { return KindFalloff }

// Blending returns the layer's compositing settings
func (l *Falloff) Blending() Blend { return l.Blend }

// Value returns the mask at fractional position (px, py), each in [0,1]
func (l *Falloff) Value(px, py float64) float32 {
	return float32(math.Max(l.axis(px), l.axis(py)))
}

func (l *Falloff) axis(p float64) float64 {
	d := math.Abs(p*2 - 1)
	num := util.PowSafe(d, l.Steepness)
	den := num + util.PowSafe(l.Tightness-l.Tightness*d, l.Steepness)
	if den == 0 {
		return 0
	}
	return num / den
}

// Generate blends the falloff mask into field
func (l *Falloff) Generate(field *HeightField) error {
	w := float64(field.Width)
	h := float64(field.Height)
	l.draw(field, func(x, y int) float32 {
		return l.Value(float64(x)/w, float64(y)/h)
	})
	return nil
}
