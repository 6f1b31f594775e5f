package erosion

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"landscape/internal/logger"
	"landscape/pkg/config"
	"landscape/pkg/heightmap"
)

func testConfig() config.ErosionConfig {
	return config.ErosionConfig{
		Seed:         9,
		Iterations:   200,
		MaxLifetime:  30,
		Inertia:      0.05,
		Capacity:     4,
		MinSlope:     0.01,
		Deposition:   0.3,
		ErosionRate:  0.3,
		Gravity:      4,
		InitialWater: 1,
		Evaporation:  0.01,
		Radius:       3,
	}
}

// bumpyField is a deterministic field with hills and valleys
func bumpyField(size int) *heightmap.HeightField {
	f, _ := heightmap.New(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := 0.5 + 0.25*math.Sin(float64(x)*0.4) + 0.25*math.Cos(float64(y)*0.3)
			f.Set(x, y, float32(v))
		}
	}
	return f
}

func TestBrushNormalized(t *testing.T) {
	for r := 1; r <= 6; r++ {
		b, err := NewBrush(r)
		if err != nil {
			t.Fatalf("NewBrush(%d): %v", r, err)
		}
		if total := b.Total(); math.Abs(total-1) > 1e-5 {
			t.Errorf("radius %d weights sum to %f", r, total)
		}
		for _, c := range b.Cells {
			if c.Weight <= 0 {
				t.Errorf("radius %d has non-positive weight at (%d,%d)", r, c.DX, c.DY)
			}
			if c.DX < -r+1 || c.DX > r || c.DY < -r+1 || c.DY > r {
				t.Errorf("radius %d offset (%d,%d) outside kernel square", r, c.DX, c.DY)
			}
		}
	}

	b, _ := NewBrush(1)
	if len(b.Cells) != 4 {
		t.Fatalf("radius 1 should be a 2x2 kernel, got %d cells", len(b.Cells))
	}

	if _, err := NewBrush(0); err == nil {
		t.Fatal("expected error for radius 0")
	}
}

func TestBrushSymmetric(t *testing.T) {
	b, _ := NewBrush(4)
	weights := map[[2]int]float32{}
	for _, c := range b.Cells {
		weights[[2]int{c.DX, c.DY}] = c.Weight
	}
	// Mirror about the half-cell centre: d -> 1-d
	for _, c := range b.Cells {
		mirror, ok := weights[[2]int{1 - c.DX, c.DY}]
		if !ok || math.Abs(float64(mirror-c.Weight)) > 1e-6 {
			t.Fatalf("brush not symmetric at (%d,%d)", c.DX, c.DY)
		}
	}
}

func TestZeroIterationsIsIdentity(t *testing.T) {
	cfg := testConfig()
	cfg.Iterations = 0

	field := bumpyField(32)
	before := slices.Clone(field.Values)

	stats, err := ErodePass(field, cfg)
	if err != nil {
		t.Fatalf("ErodePass: %v", err)
	}
	if !slices.Equal(before, field.Values) {
		t.Fatal("zero iterations changed the field")
	}
	if stats != (Stats{}) {
		t.Fatalf("zero iterations produced stats %+v", stats)
	}
}

func TestErodePassDeterministic(t *testing.T) {
	a := bumpyField(48)
	b := bumpyField(48)

	if _, err := ErodePass(a, testConfig()); err != nil {
		t.Fatal(err)
	}
	if _, err := ErodePass(b, testConfig()); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Values, b.Values) {
		t.Fatal("same seed produced different erosion")
	}
	if slices.Equal(a.Values, bumpyField(48).Values) {
		t.Fatal("erosion did not change the field")
	}
}

func TestSimulatorStreamContinues(t *testing.T) {
	sim, err := NewSimulator(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	first := bumpyField(32)
	sim.ErodePass(first)
	second := bumpyField(32)
	sim.ErodePass(second)
	if slices.Equal(first.Values, second.Values) {
		t.Fatal("second pass should draw new droplet positions")
	}

	sim.Reset()
	again := bumpyField(32)
	sim.ErodePass(again)
	if !slices.Equal(first.Values, again.Values) {
		t.Fatal("Reset should replay the first pass")
	}
}

func TestSedimentAccounting(t *testing.T) {
	field := bumpyField(64)
	before := field.Sum()

	sim, _ := NewSimulator(testConfig(), nil)
	stats := sim.Erode(field, 3)

	if stats.Droplets != 600 {
		t.Fatalf("Droplets = %d, want 600", stats.Droplets)
	}
	if stats.Eroded < 0 || stats.Deposited < 0 || stats.Leaked < 0 {
		t.Fatalf("negative totals: %+v", stats)
	}
	if stats.Eroded == 0 {
		t.Fatal("nothing was eroded")
	}

	// Carried sediment is the only way material leaves the field
	if d := stats.Eroded - stats.Deposited - stats.Leaked; math.Abs(d) > 1e-3 {
		t.Fatalf("eroded - deposited - leaked = %g", d)
	}
	drift := field.Sum() - before
	if math.Abs(drift+stats.Leaked) > 1e-2 {
		t.Fatalf("field drift %g not explained by leaked sediment %g", drift, stats.Leaked)
	}
}

func TestDropletsFlowDownhill(t *testing.T) {
	cfg := testConfig()
	cfg.Radius = 1
	cfg.Iterations = 5
	cfg.Gravity = 0 // keep speed at 1 so droplets reach the edge

	// Plane rising along +x
	field, _ := heightmap.New(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			field.Set(x, y, float32(x)/32)
		}
	}

	sim, _ := NewSimulator(cfg, nil)
	sim.SetRecordTrails(true)
	stats := sim.ErodePass(field)

	trails := sim.Trails()
	if len(trails) != cfg.Iterations {
		t.Fatalf("recorded %d trails, want %d", len(trails), cfg.Iterations)
	}
	first := trails[0].Points
	for i := 1; i < len(first); i++ {
		if first[i].X() >= first[i-1].X() {
			t.Fatalf("droplet moved uphill at step %d: %v -> %v", i, first[i-1], first[i])
		}
	}
	for _, tr := range trails {
		for _, p := range tr.Points {
			if p.X() < 1 || p.X() >= 30 || p.Z() < 1 || p.Z() >= 30 {
				t.Fatalf("trail point %v outside valid interior", p)
			}
		}
	}
	if stats.OutOfBounds == 0 {
		t.Fatal("droplets on a plane should run off the low edge")
	}
}

func TestTrailWorld(t *testing.T) {
	tr := Trail{FieldWidth: 5, FieldHeight: 5}
	tr.add(2, 0.5, 2)
	tr.add(0, 1, 4)

	world := tr.World(2, heightmap.Elevation{Floor: 0, Ceiling: 10})
	if world[0].X() != 0 || world[0].Z() != 0 || world[0].Y() != 5 {
		t.Fatalf("centre sample projected to %v", world[0])
	}
	if world[1].X() != -4 || world[1].Z() != 4 || world[1].Y() != 10 {
		t.Fatalf("corner sample projected to %v", world[1])
	}
}

func TestSmallFieldSkipsPass(t *testing.T) {
	var buf bytes.Buffer
	sim, _ := NewSimulator(testConfig(), logger.New(&buf, "warn"))

	field, _ := heightmap.New(3, 8)
	stats := sim.ErodePass(field)
	if stats != (Stats{}) {
		t.Fatalf("small field produced stats %+v", stats)
	}
	if !strings.Contains(buf.String(), "too small") {
		t.Fatalf("expected warning, got %q", buf.String())
	}
}

func TestFlatFieldIsUnchanged(t *testing.T) {
	field, _ := heightmap.New(16, 16)
	sim, _ := NewSimulator(testConfig(), nil)
	stats := sim.ErodePass(field)

	for _, v := range field.Values {
		if v != 0 {
			t.Fatal("flat field changed")
		}
	}
	if stats.Steps != 0 {
		t.Fatalf("droplets moved on flat ground: %d steps", stats.Steps)
	}
}

func TestNewSimulatorRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Radius = 0
	if _, err := NewSimulator(cfg, nil); err == nil {
		t.Fatal("expected error for radius 0")
	}
	cfg = testConfig()
	cfg.Iterations = -1
	if _, err := ErodePass(bumpyField(8), cfg); err == nil {
		t.Fatal("expected error for negative iterations")
	}
}
