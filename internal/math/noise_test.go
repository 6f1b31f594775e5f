package noise

import (
	"math"
	"testing"
)

func TestBasisDeterministic(t *testing.T) {
	for _, kind := range []string{BasisValue, BasisPerlin, BasisSimplex} {
		a, err := NewBasis(kind, 12345)
		if err != nil {
			t.Fatalf("NewBasis(%q): %v", kind, err)
		}
		b, _ := NewBasis(kind, 12345)

		for i := 0; i < 100; i++ {
			x := float64(i) * 0.13
			y := float64(i) * 0.29
			if a.Eval2(x, y) != b.Eval2(x, y) {
				t.Fatalf("%s basis not deterministic at (%f, %f)", kind, x, y)
			}
		}
	}
}

func TestBasisRange(t *testing.T) {
	for _, kind := range []string{BasisValue, BasisPerlin, BasisSimplex} {
		basis, _ := NewBasis(kind, 42)
		for i := 0; i < 10000; i++ {
			x := float64(i)*0.37 - 500
			y := float64(i)*0.53 - 500
			v := basis.Eval2(x, y)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s Eval2(%f, %f) = %f, out of [0,1]", kind, x, y, v)
			}
		}
	}
}

func TestUnknownBasis(t *testing.T) {
	if _, err := NewBasis("worley", 1); err == nil {
		t.Fatal("expected error for unknown basis")
	}
}

func TestValueNoiseLatticeContinuity(t *testing.T) {
	v := ValueNoise{Seed: 7}
	// The fade has zero slope at lattice points, so values just either side of
	// an integer coordinate must agree closely.
	left := v.Eval2(2.999999, 5.5)
	right := v.Eval2(3.000001, 5.5)
	if math.Abs(left-right) > 1e-4 {
		t.Fatalf("discontinuity at lattice line: %f vs %f", left, right)
	}
}

func TestFractalOffsetsFromSeed(t *testing.T) {
	basis := ValueNoise{Seed: 1}
	a := NewFractal(basis, 4, 0.5, 2, 99, 0, 0)
	b := NewFractal(basis, 4, 0.5, 2, 99, 0, 0)
	c := NewFractal(basis, 4, 0.5, 2, 100, 0, 0)

	differs := false
	for i := 0; i < a.Octaves(); i++ {
		ax, ay := a.Offset(i)
		bx, by := b.Offset(i)
		cx, cy := c.Offset(i)
		if ax != bx || ay != by {
			t.Fatalf("octave %d offsets differ for identical seeds", i)
		}
		if ax < -octaveOffsetRange || ax >= octaveOffsetRange || ay < -octaveOffsetRange || ay >= octaveOffsetRange {
			t.Fatalf("octave %d offset (%f, %f) outside range", i, ax, ay)
		}
		if ax != cx || ay != cy {
			differs = true
		}
	}
	if !differs {
		t.Fatal("different seeds produced identical octave offsets")
	}
}

func TestFractalUserOffset(t *testing.T) {
	basis := ValueNoise{Seed: 1}
	plain := NewFractal(basis, 2, 0.5, 2, 5, 0, 0)
	shifted := NewFractal(basis, 2, 0.5, 2, 5, 10, -3)

	px, py := plain.Offset(1)
	sx, sy := shifted.Offset(1)
	if sx-px != 10 || sy-py != -3 {
		t.Fatalf("user offset not applied: plain (%f,%f) shifted (%f,%f)", px, py, sx, sy)
	}
}

func TestFractalBounds(t *testing.T) {
	f := NewFractal(ValueNoise{Seed: 3}, 3, 0.5, 2, 8, 0, 0)
	if got := f.MaxAmplitude(); got != 1.75 {
		t.Fatalf("MaxAmplitude = %f, want 1.75", got)
	}
	for i := 0; i < 1000; i++ {
		v := f.Sample(float64(i)*0.07, float64(i)*0.11)
		if v < 0 || v > f.MaxAmplitude() {
			t.Fatalf("Sample = %f, outside [0, %f]", v, f.MaxAmplitude())
		}
	}
}

func TestFractalClampsOctaves(t *testing.T) {
	f := NewFractal(ValueNoise{}, 0, 0.5, 2, 0, 0, 0)
	if f.Octaves() != 1 {
		t.Fatalf("Octaves = %d, want 1", f.Octaves())
	}
}
