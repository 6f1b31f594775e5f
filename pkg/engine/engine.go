package engine

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"landscape/internal/logger"
	"landscape/internal/util"
	"landscape/pkg/config"
	"landscape/pkg/erosion"
	"landscape/pkg/heightmap"
	"landscape/pkg/mesh"
	"landscape/pkg/world"
)

// Engine runs the terrain pipeline: layer stack, erosion, chunk meshes
type Engine struct {
	config  *config.Config
	logger  *logger.Logger
	stack   *heightmap.Stack
	erosion *erosion.Simulator
	world   *world.Coordinator

	remainingPasses int
	erosionStats    erosion.Stats
	generated       bool
}

// Summary describes the current terrain
type Summary struct {
	Chunks    int
	Vertices  int
	Triangles int
	MinHeight float32
	MaxHeight float32
	Erosion   erosion.Stats
}

// NewEngine creates an engine from config; nothing is generated until Generate
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize components
	stack, err := heightmap.NewStackFromConfig(cfg.Layers, cfg.Terrain.Seed, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize layer stack: %w", err)
	}

	erosionCfg := cfg.Erosion
	erosionCfg.Seed += cfg.Terrain.Seed
	sim, err := erosion.NewSimulator(erosionCfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize erosion: %w", err)
	}

	tess := mesh.NewTessellator(cfg.Mesh, log)
	layout := world.NewLayout(cfg.World, cfg.Mesh)
	policy := world.LODPolicy{Near: cfg.World.NearLOD, Far: cfg.World.FarLOD}
	coord, err := world.NewCoordinator(layout, policy, tess, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize world: %w", err)
	}

	engine := &Engine{
		config:  cfg,
		logger:  log.With("engine"),
		stack:   stack,
		erosion: sim,
		world:   coord,
	}

	return engine, nil
}

// Config returns the engine configuration
func (e *Engine) Config() *config.Config { return e.config }

// Stack returns the layer stack; edits take effect on the next Generate
func (e *Engine) Stack() *heightmap.Stack { return e.stack }

// World returns the chunk coordinator
func (e *Engine) World() *world.Coordinator { return e.world }

// Simulator returns the erosion simulator
func (e *Engine) Simulator() *erosion.Simulator { return e.erosion }

// Generate composes a fresh master field and tessellates every chunk.
// Any erosion in progress is abandoned and the erosion stream restarts.
func (e *Engine) Generate() error {
	start := time.Now()
	size := e.world.Layout().MasterSize()

	field, err := e.stack.Compose(size, size)
	if err != nil {
		return fmt.Errorf("failed to compose height field: %w", err)
	}
	if err := e.world.SetHeightField(field); err != nil {
		return err
	}
	if err := e.world.Build(); err != nil {
		return fmt.Errorf("failed to build chunks: %w", err)
	}

	e.erosion.Reset()
	e.remainingPasses = 0
	e.erosionStats = erosion.Stats{}
	e.generated = true

	e.logger.Infof("generated %dx%d terrain from %d layers in %.1fms", size, size, e.stack.Len(), util.TimeTrack(start))
	return nil
}

// StartErosion schedules the configured number of passes for ErodeTick
func (e *Engine) StartErosion() {
	e.remainingPasses = e.config.Erosion.Passes
	e.logger.Infof("erosion started: %d passes of %d droplets", e.remainingPasses, e.config.Erosion.Iterations)
}

// Eroding reports whether passes remain
func (e *Engine) Eroding() bool { return e.remainingPasses > 0 }

// ErodeTick runs one scheduled pass. When it runs the last pass the chunks are
// re-tessellated and done is true.
func (e *Engine) ErodeTick() (done bool, err error) {
	if e.remainingPasses == 0 {
		return false, nil
	}
	if !e.generated {
		return false, world.ErrNoHeightField
	}

	e.erosionStats.Merge(e.erosion.ErodePass(e.world.HeightField()))
	e.remainingPasses--
	if e.remainingPasses > 0 {
		return false, nil
	}

	if err := e.world.Rebuild(); err != nil {
		return false, fmt.Errorf("failed to rebuild chunks after erosion: %w", err)
	}
	s := e.erosionStats
	e.logger.Infof("erosion finished: %d droplets, eroded %.3f, deposited %.3f, leaked %.3f",
		s.Droplets, s.Eroded, s.Deposited, s.Leaked)
	return true, nil
}

// Erode runs every configured pass at once
func (e *Engine) Erode() error {
	e.StartErosion()
	for e.Eroding() {
		if _, err := e.ErodeTick(); err != nil {
			return err
		}
	}
	return nil
}

// MoveViewer updates the viewer position and returns the re-tessellated chunks
func (e *Engine) MoveViewer(pos mgl32.Vec3) ([]world.ChunkCoord, error) {
	return e.world.UpdateViewer(pos)
}

// Summary reports chunk and height statistics
func (e *Engine) Summary() Summary {
	s := Summary{Erosion: e.erosionStats}
	for _, ch := range e.world.Chunks() {
		s.Chunks++
		s.Vertices += len(ch.Mesh.Vertices)
		s.Triangles += ch.Mesh.TriangleCount()
	}
	if f := e.world.HeightField(); f != nil {
		s.MinHeight, s.MaxHeight = f.Range()
	}
	return s
}
