package noise

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Basis kinds
const (
	BasisValue   = "value"
	BasisPerlin  = "perlin"
	BasisSimplex = "simplex"
)

// octaveOffsetRange bounds the seeded per-octave sample offsets
const octaveOffsetRange = 10000

// Basis is a 2D coherent noise source with output in [0, 1]
type Basis interface {
	Eval2(x, y float64) float64
}

// NewBasis creates the named noise basis for a seed. An empty kind selects value noise.
func NewBasis(kind string, seed int64) (Basis, error) {
	switch kind {
	case "", BasisValue:
		return ValueNoise{Seed: seed}, nil
	case BasisPerlin:
		// One go-perlin octave; Fractal owns the octave sum.
		return perlinBasis{p: perlin.NewPerlin(2, 2, 1, seed)}, nil
	case BasisSimplex:
		return simplexBasis{n: opensimplex.NewNormalized(seed)}, nil
	default:
		return nil, fmt.Errorf("unknown noise basis %q", kind)
	}
}

// ValueNoise is lattice value noise: hashed values at integer points blended
// with a quintic fade.
type ValueNoise struct {
	Seed int64
}

// Eval2 samples the value noise at (x, y)
func (v ValueNoise) Eval2(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix, iy := int(x0), int(y0)
	seed := int(v.Seed)

	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)

	v00 := hashToFloat(hash(ix, iy, 0, seed))
	v10 := hashToFloat(hash(ix+1, iy, 0, seed))
	v01 := hashToFloat(hash(ix, iy+1, 0, seed))
	v11 := hashToFloat(hash(ix+1, iy+1, 0, seed))

	return lerp(lerp(v00, v10, sx), lerp(v01, v11, sx), sy)
}

type perlinBasis struct {
	p *perlin.Perlin
}

func (b perlinBasis) Eval2(x, y float64) float64 {
	return clamp01((b.p.Noise2D(x, y) + 1) * 0.5)
}

type simplexBasis struct {
	n opensimplex.Noise
}

func (b simplexBasis) Eval2(x, y float64) float64 {
	return clamp01(b.n.Eval2(x, y))
}

// Fractal sums octaves of a basis. Each octave multiplies frequency by
// Lacunarity and amplitude by Persistence, and samples at its own offset drawn
// from the seed.
type Fractal struct {
	basis       Basis
	octaves     int
	persistence float64
	lacunarity  float64
	offsets     [][2]float64
}

// NewFractal creates a fractal sampler. offsetX/offsetY shift every octave.
func NewFractal(basis Basis, octaves int, persistence, lacunarity float64, seed int64, offsetX, offsetY float64) *Fractal {
	if octaves < 1 {
		octaves = 1
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	offsets := make([][2]float64, octaves)
	for i := range offsets {
		offsets[i][0] = float64(rng.IntN(2*octaveOffsetRange)-octaveOffsetRange) + offsetX
		offsets[i][1] = float64(rng.IntN(2*octaveOffsetRange)-octaveOffsetRange) + offsetY
	}

	return &Fractal{
		basis:       basis,
		octaves:     octaves,
		persistence: persistence,
		lacunarity:  lacunarity,
		offsets:     offsets,
	}
}

// Octaves returns the number of summed octaves
func (f *Fractal) Octaves() int { return f.octaves }

// Offset returns the sample offset of an octave
func (f *Fractal) Offset(octave int) (float64, float64) {
	return f.offsets[octave][0], f.offsets[octave][1]
}

// Sample evaluates the octave sum at (x, y). The result is not normalized:
// it lies in [0, sum of amplitudes].
func (f *Fractal) Sample(x, y float64) float64 {
	value := 0.0
	frequency := 1.0
	amplitude := 1.0

	for i := 0; i < f.octaves; i++ {
		sx := x*frequency + f.offsets[i][0]
		sy := y*frequency + f.offsets[i][1]
		value += f.basis.Eval2(sx, sy) * amplitude

		frequency *= f.lacunarity
		amplitude *= f.persistence
	}

	return value
}

// MaxAmplitude returns the upper bound of Sample
func (f *Fractal) MaxAmplitude() float64 {
	total := 0.0
	amplitude := 1.0
	for i := 0; i < f.octaves; i++ {
		total += amplitude
		amplitude *= f.persistence
	}
	return total
}

// Helper functions

// hash combines the coordinates and seed to create a unique hash
func hash(x, y, z, seed int) int {
	h := seed + x*374761393 + y*668265263 + z*374761393
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// hashToFloat converts a hash to a float in range [0, 1)
func hashToFloat(h int) float64 {
	return float64(h&0xFFFFFF) / 16777216.0
}

// lerp performs linear interpolation
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// smoothstep applies the quintic fade 6t^5 - 15t^4 + 10t^3
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
