package erosion

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"landscape/internal/logger"
	"landscape/internal/util"
	"landscape/pkg/config"
	"landscape/pkg/heightmap"
)

// Stats summarizes one or more erosion passes
type Stats struct {
	Droplets    int
	Steps       int
	Eroded      float64 // material removed by the brush
	Deposited   float64 // material splatted back
	Leaked      float64 // sediment still carried when droplets terminated
	OutOfBounds int     // droplets that stepped outside the valid interior
}

// Merge adds other into s
func (s *Stats) Merge(other Stats) {
	s.Droplets += other.Droplets
	s.Steps += other.Steps
	s.Eroded += other.Eroded
	s.Deposited += other.Deposited
	s.Leaked += other.Leaked
	s.OutOfBounds += other.OutOfBounds
}

// params is ErosionConfig narrowed to the field's precision
type params struct {
	iterations   int
	maxLifetime  int
	inertia      float32
	capacity     float32
	minSlope     float32
	deposition   float32
	erosionRate  float32
	gravity      float32
	initialWater float32
	evaporation  float32
}

func newParams(cfg config.ErosionConfig) params {
	return params{
		iterations:   cfg.Iterations,
		maxLifetime:  cfg.MaxLifetime,
		inertia:      float32(cfg.Inertia),
		capacity:     float32(cfg.Capacity),
		minSlope:     float32(cfg.MinSlope),
		deposition:   float32(cfg.Deposition),
		erosionRate:  float32(cfg.ErosionRate),
		gravity:      float32(cfg.Gravity),
		initialWater: float32(cfg.InitialWater),
		evaporation:  float32(cfg.Evaporation),
	}
}

// Simulator runs droplet erosion passes. Its random stream is seeded once, so
// successive passes continue the stream and a fresh simulator with the same
// seed reproduces the same sequence of passes.
type Simulator struct {
	cfg    config.ErosionConfig
	p      params
	brush  Brush
	rng    *rand.Rand
	log    *logger.Logger
	record bool
	trails []Trail
}

// NewSimulator creates a simulator; a nil logger discards output
func NewSimulator(cfg config.ErosionConfig, log *logger.Logger) (*Simulator, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Iterations < 0 || cfg.MaxLifetime < 0 {
		return nil, fmt.Errorf("erosion: iterations and max lifetime must not be negative")
	}

	brush, err := NewBrush(cfg.Radius)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		cfg:   cfg,
		p:     newParams(cfg),
		brush: brush,
		rng:   newRNG(cfg.Seed),
		log:   log.With("erosion"),
	}, nil
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x5eed))
}

// Config returns the simulator's parameters
func (s *Simulator) Config() config.ErosionConfig { return s.cfg }

// Brush returns the precomputed erosion kernel
func (s *Simulator) Brush() Brush { return s.brush }

// SetRecordTrails enables recording every droplet's path during later passes
func (s *Simulator) SetRecordTrails(record bool) { s.record = record }

// Trails returns the droplet paths recorded by the last pass
func (s *Simulator) Trails() []Trail { return s.trails }

// Reset rewinds the random stream to the seed and drops recorded trails
func (s *Simulator) Reset() {
	s.rng = newRNG(s.cfg.Seed)
	s.trails = nil
}

// ErodePass mutates field in place with one pass of droplets. Fields smaller
// than 4 samples on a side cannot hold a droplet and are left untouched.
func ErodePass(field *heightmap.HeightField, cfg config.ErosionConfig) (Stats, error) {
	s, err := NewSimulator(cfg, nil)
	if err != nil {
		return Stats{}, err
	}
	return s.ErodePass(field), nil
}

// Erode runs passes erosion passes
func (s *Simulator) Erode(field *heightmap.HeightField, passes int) Stats {
	var total Stats
	for i := 0; i < passes; i++ {
		total.Merge(s.ErodePass(field))
	}
	return total
}

// ErodePass runs one pass of droplets over field in place
func (s *Simulator) ErodePass(field *heightmap.HeightField) Stats {
	var stats Stats
	if s.record {
		s.trails = s.trails[:0]
	}

	if field.Width < 4 || field.Height < 4 {
		s.log.Warnf("height field %dx%d too small for droplets, skipping pass", field.Width, field.Height)
		return stats
	}
	if s.p.iterations == 0 {
		return stats
	}

	start := time.Now()
	for i := 0; i < s.p.iterations; i++ {
		s.runDroplet(field, &stats)
	}
	stats.Droplets = s.p.iterations

	s.log.Debugf("pass: %d droplets, %d steps, eroded %.4f, deposited %.4f, leaked %.4f in %.1fms",
		stats.Droplets, stats.Steps, stats.Eroded, stats.Deposited, stats.Leaked, util.TimeTrack(start))
	return stats
}

// inside reports whether (px, py) leaves room for the 2x2 quad sample
func inside(field *heightmap.HeightField, px, py float32) bool {
	return px >= 1 && py >= 1 && px < float32(field.Width-2) && py < float32(field.Height-2)
}

func (s *Simulator) runDroplet(field *heightmap.HeightField, stats *Stats) {
	p := s.p

	// Spawn on an integer cell inside the valid region
	px := float32(s.rng.IntN(field.Width-3) + 1)
	py := float32(s.rng.IntN(field.Height-3) + 1)
	var dirX, dirY float32
	speed := float32(1)
	water := p.initialWater
	var sediment float32

	var trail *Trail
	if s.record {
		s.trails = append(s.trails, Trail{FieldWidth: field.Width, FieldHeight: field.Height})
		trail = &s.trails[len(s.trails)-1]
	}

	for step := 0; step < p.maxLifetime; step++ {
		if speed < 0 || water <= 0 {
			break
		}

		height, gx, gy := sample(field, px, py)
		if trail != nil {
			trail.add(px, py, height)
		}

		// Turn downhill, keeping the old heading when the blend cancels out
		ndx := dirX*p.inertia - gx*(1-p.inertia)
		ndy := dirY*p.inertia - gy*(1-p.inertia)
		if length := float32(math.Sqrt(float64(ndx*ndx + ndy*ndy))); length > 0 {
			ndx /= length
			ndy /= length
		} else {
			ndx, ndy = dirX, dirY
		}
		if ndx == 0 && ndy == 0 {
			// Flat ground and no momentum
			break
		}
		dirX, dirY = ndx, ndy

		oldX, oldY := px, py
		px += dirX
		py += dirY
		stats.Steps++

		if !inside(field, px, py) {
			stats.OutOfBounds++
			break
		}

		newHeight, _, _ := sample(field, px, py)
		dh := newHeight - height

		if dh > 0 {
			// Uphill: fill the pit behind the droplet
			amount := min(sediment, dh)
			splat(field, oldX, oldY, amount)
			sediment -= amount
			stats.Deposited += float64(amount)
		} else if dh < 0 {
			capacity := max(-dh, p.minSlope) * speed * water * p.capacity
			if sediment >= capacity {
				amount := (sediment - capacity) * p.deposition
				splat(field, px, py, amount)
				sediment -= amount
				stats.Deposited += float64(amount)
			} else {
				amount := min((capacity-sediment)*p.erosionRate, -dh)
				taken := s.erode(field, oldX, oldY, amount)
				sediment += taken
				stats.Eroded += float64(taken)
			}
		}

		v2 := speed*speed + dh*p.gravity
		if v2 < 0 {
			break
		}
		speed = float32(math.Sqrt(float64(v2)))
		water *= 1 - p.evaporation
	}

	stats.Leaked += float64(sediment)
}

// sample returns the bilinear height and forward-difference gradient at (px, py).
// The caller guarantees floor(px)+1 and floor(py)+1 are in range.
func sample(field *heightmap.HeightField, px, py float32) (height, gx, gy float32) {
	x, y := int(px), int(py)
	fx, fy := px-float32(x), py-float32(y)

	i := field.Index(x, y)
	h00 := field.Values[i]
	h10 := field.Values[i+1]
	h01 := field.Values[i+field.Width]
	h11 := field.Values[i+field.Width+1]

	gx = (h10-h00)*(1-fy) + (h11-h01)*fy
	gy = (h01-h00)*(1-fx) + (h11-h10)*fx
	height = h00*(1-fx)*(1-fy) + h10*fx*(1-fy) + h01*(1-fx)*fy + h11*fx*fy
	return height, gx, gy
}

// splat distributes amount over the four samples around (px, py) with the
// same weights sample reads them with
func splat(field *heightmap.HeightField, px, py, amount float32) {
	x, y := int(px), int(py)
	fx, fy := px-float32(x), py-float32(y)

	i := field.Index(x, y)
	field.Values[i] += amount * (1 - fx) * (1 - fy)
	field.Values[i+1] += amount * fx * (1 - fy)
	field.Values[i+field.Width] += amount * (1 - fx) * fy
	field.Values[i+field.Width+1] += amount * fx * fy
}

// erode subtracts amount through the brush around the cell holding (px, py)
// and returns what was actually removed; brush cells off the field are skipped.
func (s *Simulator) erode(field *heightmap.HeightField, px, py, amount float32) float32 {
	cx, cy := int(px), int(py)
	var taken float32
	for _, c := range s.brush.Cells {
		x, y := cx+c.DX, cy+c.DY
		if !field.InBounds(x, y) {
			continue
		}
		delta := c.Weight * amount
		field.Add(x, y, -delta)
		taken += delta
	}
	return taken
}
