package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"landscape/pkg/config"
)

// ChunkCoord is a chunk's position in the grid
type ChunkCoord struct {
	X, Y int
}

// Layout describes the chunk grid. The world is centred on the origin with
// chunks laid out along +X and +Z.
type Layout struct {
	WorldSize     int // chunks per axis
	ChunkCells    int // quads per chunk side
	BorderWidth   int
	VertexSpacing float32
}

// NewLayout creates a layout from world and mesh config
func NewLayout(w config.WorldConfig, m config.MeshConfig) Layout {
	return Layout{
		WorldSize:     w.Size,
		ChunkCells:    w.ChunkCells,
		BorderWidth:   m.BorderWidth,
		VertexSpacing: float32(m.VertexSpacing),
	}
}

// MasterSize is the side of the height field that covers every chunk window
func (l Layout) MasterSize() int {
	return l.WorldSize*l.ChunkCells + 1 + 2*l.BorderWidth
}

// WindowSize is the side of one chunk's bordered sample window
func (l Layout) WindowSize() int {
	return l.ChunkCells + 1 + 2*l.BorderWidth
}

// ChunkExtent is a chunk's side length in world units
func (l Layout) ChunkExtent() float32 {
	return float32(l.ChunkCells) * l.VertexSpacing
}

// InRange reports whether c is inside the grid
func (l Layout) InRange(c ChunkCoord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < l.WorldSize && c.Y < l.WorldSize
}

// ChunkPosition returns the world-space centre of a chunk
func (l Layout) ChunkPosition(c ChunkCoord) mgl32.Vec3 {
	half := float32(l.WorldSize) / 2
	extent := l.ChunkExtent()
	return mgl32.Vec3{
		(float32(c.X) + 0.5 - half) * extent,
		0,
		(float32(c.Y) + 0.5 - half) * extent,
	}
}

// ChunkAt returns the chunk under a world position, ignoring height
func (l Layout) ChunkAt(pos mgl32.Vec3) (ChunkCoord, bool) {
	half := float64(l.WorldSize) / 2
	extent := float64(l.ChunkExtent())
	c := ChunkCoord{
		X: int(math.Floor(float64(pos.X())/extent + half)),
		Y: int(math.Floor(float64(pos.Z())/extent + half)),
	}
	return c, l.InRange(c)
}

// Coords lists every chunk in row-major order
func (l Layout) Coords() []ChunkCoord {
	coords := make([]ChunkCoord, 0, l.WorldSize*l.WorldSize)
	for y := 0; y < l.WorldSize; y++ {
		for x := 0; x < l.WorldSize; x++ {
			coords = append(coords, ChunkCoord{x, y})
		}
	}
	return coords
}

// LODPolicy gives the chunk under the viewer Near detail and every other chunk Far
type LODPolicy struct {
	Near int
	Far  int
}

// Resolve returns the lod of c given the viewer's chunk
func (p LODPolicy) Resolve(c, viewer ChunkCoord, hasViewer bool) int {
	if hasViewer && c == viewer {
		return p.Near
	}
	return p.Far
}
