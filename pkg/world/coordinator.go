package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"landscape/internal/logger"
	"landscape/internal/util"
	"landscape/pkg/heightmap"
	"landscape/pkg/mesh"
)

var (
	// ErrNoHeightField is returned when building before a field is set
	ErrNoHeightField = errors.New("world: no height field set")
	// ErrFieldSize is returned for a master field that does not match the layout
	ErrFieldSize = errors.New("world: height field does not match layout")
	// ErrChunkOutOfRange is returned for a coordinate outside the grid
	ErrChunkOutOfRange = errors.New("world: chunk out of range")
)

// ChunkData is what the tessellator consumes for one chunk
type ChunkData struct {
	Coord         ChunkCoord
	Field         *heightmap.HeightField
	WorldPosition mgl32.Vec3
	LOD           int
}

// Chunk is a tessellated chunk. Mesh vertices are relative to WorldPosition.
type Chunk struct {
	Coord         ChunkCoord
	WorldPosition mgl32.Vec3
	LOD           int
	Mesh          mesh.Mesh
}

// Coordinator owns the master field and keeps one mesh per chunk at the lod
// its policy assigns
type Coordinator struct {
	layout Layout
	policy LODPolicy
	tess   *mesh.Tessellator
	log    *logger.Logger

	field     *heightmap.HeightField
	chunks    map[ChunkCoord]*Chunk
	viewer    ChunkCoord
	hasViewer bool
}

// NewCoordinator checks that both policy lods divide the chunk and that the
// tessellator's border matches the layout; a nil logger discards output
func NewCoordinator(layout Layout, policy LODPolicy, tess *mesh.Tessellator, log *logger.Logger) (*Coordinator, error) {
	if log == nil {
		log = logger.Nop()
	}
	if layout.WorldSize < 1 || layout.ChunkCells < 1 {
		return nil, fmt.Errorf("world: invalid layout %+v", layout)
	}
	if tess == nil || tess.BorderWidth != layout.BorderWidth {
		return nil, fmt.Errorf("%w: tessellator border must match layout border %d", mesh.ErrMissingVertexParameters, layout.BorderWidth)
	}
	for _, lod := range []int{policy.Near, policy.Far} {
		if lod < 0 || layout.ChunkCells%mesh.Stride(lod) != 0 {
			return nil, fmt.Errorf("%w: lod %d, %d cells", mesh.ErrUnsupportedLOD, lod, layout.ChunkCells)
		}
	}

	return &Coordinator{
		layout: layout,
		policy: policy,
		tess:   tess,
		log:    log.With("world"),
		chunks: make(map[ChunkCoord]*Chunk),
	}, nil
}

// Layout returns the chunk grid layout
func (c *Coordinator) Layout() Layout { return c.layout }

// HeightField returns the master field
func (c *Coordinator) HeightField() *heightmap.HeightField { return c.field }

// SetHeightField replaces the master field; it must be MasterSize on each side
func (c *Coordinator) SetHeightField(field *heightmap.HeightField) error {
	size := c.layout.MasterSize()
	if field == nil || field.Width != size || field.Height != size {
		got := "nil"
		if field != nil {
			got = fmt.Sprintf("%dx%d", field.Width, field.Height)
		}
		return fmt.Errorf("%w: got %s, want %dx%d", ErrFieldSize, got, size, size)
	}
	c.field = field
	return nil
}

// Viewer returns the chunk under the viewer, if any
func (c *Coordinator) Viewer() (ChunkCoord, bool) { return c.viewer, c.hasViewer }

// LODFor returns the lod the policy assigns to a chunk
func (c *Coordinator) LODFor(coord ChunkCoord) int {
	return c.policy.Resolve(coord, c.viewer, c.hasViewer)
}

// ChunkData samples the window of a chunk at its current lod
func (c *Coordinator) ChunkData(coord ChunkCoord) (ChunkData, error) {
	if c.field == nil {
		return ChunkData{}, ErrNoHeightField
	}
	if !c.layout.InRange(coord) {
		return ChunkData{}, fmt.Errorf("%w: %v", ErrChunkOutOfRange, coord)
	}
	return ChunkData{
		Coord:         coord,
		Field:         Sample(c.field, coord.X, coord.Y, c.layout.ChunkCells, c.layout.BorderWidth),
		WorldPosition: c.layout.ChunkPosition(coord),
		LOD:           c.LODFor(coord),
	}, nil
}

func (c *Coordinator) tessellate(coord ChunkCoord) error {
	data, err := c.ChunkData(coord)
	if err != nil {
		return err
	}
	m, err := c.tess.Tessellate(data.Field, data.LOD)
	if err != nil {
		return fmt.Errorf("failed to tessellate chunk %v: %w", coord, err)
	}
	c.chunks[coord] = &Chunk{
		Coord:         coord,
		WorldPosition: data.WorldPosition,
		LOD:           data.LOD,
		Mesh:          m,
	}
	return nil
}

// Build tessellates every chunk
func (c *Coordinator) Build() error {
	if c.field == nil {
		return ErrNoHeightField
	}

	start := time.Now()
	for _, coord := range c.layout.Coords() {
		if err := c.tessellate(coord); err != nil {
			return err
		}
	}
	c.log.Infof("built %d chunks in %.1fms", len(c.chunks), util.TimeTrack(start))
	return nil
}

// Rebuild re-tessellates every chunk after the master field changed
func (c *Coordinator) Rebuild() error {
	return c.Build()
}

// UpdateViewer moves the viewer. When it enters a different chunk, only the
// previous and the new current chunk are re-tessellated; their coordinates
// are returned. Nothing is tessellated before the first Build.
func (c *Coordinator) UpdateViewer(pos mgl32.Vec3) ([]ChunkCoord, error) {
	coord, ok := c.layout.ChunkAt(pos)
	if ok == c.hasViewer && (!ok || coord == c.viewer) {
		return nil, nil
	}

	oldCoord, hadViewer := c.viewer, c.hasViewer
	c.viewer, c.hasViewer = coord, ok
	if len(c.chunks) == 0 {
		return nil, nil
	}

	var changed []ChunkCoord
	if hadViewer {
		changed = append(changed, oldCoord)
	}
	if ok {
		changed = append(changed, coord)
	}
	for _, cc := range changed {
		if err := c.tessellate(cc); err != nil {
			return nil, err
		}
	}
	c.log.Debugf("viewer moved to %v (in world: %v), re-tessellated %v", coord, ok, changed)
	return changed, nil
}

// Chunk returns a tessellated chunk
func (c *Coordinator) Chunk(coord ChunkCoord) (*Chunk, bool) {
	ch, ok := c.chunks[coord]
	return ch, ok
}

// Chunks returns every tessellated chunk in row-major order
func (c *Coordinator) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(c.chunks))
	for _, coord := range c.layout.Coords() {
		if ch, ok := c.chunks[coord]; ok {
			out = append(out, ch)
		}
	}
	return out
}
