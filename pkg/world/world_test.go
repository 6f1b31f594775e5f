package world

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"landscape/pkg/config"
	"landscape/pkg/heightmap"
	"landscape/pkg/mesh"
)

func testLayout(size, cells int) Layout {
	return Layout{WorldSize: size, ChunkCells: cells, BorderWidth: 1, VertexSpacing: 1}
}

func noiseMaster(t *testing.T, layout Layout) *heightmap.HeightField {
	t.Helper()
	s := heightmap.NewStack(nil)
	s.Add(&heightmap.NoiseLayer{
		Blend:       heightmap.Blend{Mode: heightmap.Overwrite, Strength: 1},
		Scale:       6,
		Octaves:     3,
		Persistence: 0.5,
		Lacunarity:  2,
		Seed:        11,
	})
	f, err := s.Compose(layout.MasterSize(), layout.MasterSize())
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func newCoordinator(t *testing.T, layout Layout, policy LODPolicy) *Coordinator {
	t.Helper()
	tess := mesh.NewTessellator(config.MeshConfig{VertexSpacing: float64(layout.VertexSpacing), Floor: 0, Ceiling: 1, BorderWidth: layout.BorderWidth}, nil)
	c, err := NewCoordinator(layout, policy, tess, nil)
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	if err := c.SetHeightField(noiseMaster(t, layout)); err != nil {
		t.Fatalf("SetHeightField: %v", err)
	}
	return c
}

func TestSampleWindow(t *testing.T) {
	layout := testLayout(2, 4)
	master, _ := heightmap.New(layout.MasterSize(), layout.MasterSize())
	for i := range master.Values {
		master.Values[i] = float32(i)
	}

	w := Sample(master, 1, 1, 4, 1)
	if w.Width != 7 || w.Height != 7 {
		t.Fatalf("window %dx%d, want 7x7", w.Width, w.Height)
	}
	if w.At(0, 0) != master.At(4, 4) || w.At(6, 6) != master.At(10, 10) {
		t.Fatalf("window corners %v %v", w.At(0, 0), w.At(6, 6))
	}

	// Neighbours share their edge line: left window's last real column is the right window's first
	left := Sample(master, 0, 0, 4, 1)
	right := Sample(master, 1, 0, 4, 1)
	for y := 0; y < 7; y++ {
		if left.At(5, y) != right.At(1, y) {
			t.Fatalf("shared column differs at row %d", y)
		}
	}
}

func TestLayoutGeometry(t *testing.T) {
	layout := testLayout(2, 4)
	if layout.MasterSize() != 11 || layout.WindowSize() != 7 {
		t.Fatalf("master %d window %d", layout.MasterSize(), layout.WindowSize())
	}

	if p := layout.ChunkPosition(ChunkCoord{0, 0}); p != (mgl32.Vec3{-2, 0, -2}) {
		t.Fatalf("chunk 0,0 at %v", p)
	}
	if p := layout.ChunkPosition(ChunkCoord{1, 1}); p != (mgl32.Vec3{2, 0, 2}) {
		t.Fatalf("chunk 1,1 at %v", p)
	}

	if c, ok := layout.ChunkAt(mgl32.Vec3{-1, 50, -3}); !ok || c != (ChunkCoord{0, 0}) {
		t.Fatalf("ChunkAt = %v %v", c, ok)
	}
	if c, ok := layout.ChunkAt(mgl32.Vec3{3, 0, -1}); !ok || c != (ChunkCoord{1, 0}) {
		t.Fatalf("ChunkAt = %v %v", c, ok)
	}
	if _, ok := layout.ChunkAt(mgl32.Vec3{5, 0, 0}); ok {
		t.Fatal("position outside the world should not resolve")
	}

	if got := len(layout.Coords()); got != 4 {
		t.Fatalf("Coords = %d", got)
	}
}

func TestAdjacentChunksShareSeam(t *testing.T) {
	layout := testLayout(2, 8)
	c := newCoordinator(t, layout, LODPolicy{Near: 0, Far: 0})
	if err := c.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	v := layout.ChunkCells + 1
	check := func(a, b *Chunk, ia, ib func(j int) int) {
		t.Helper()
		for j := 0; j < v; j++ {
			pa := a.Mesh.Vertices[ia(j)].Add(a.WorldPosition)
			pb := b.Mesh.Vertices[ib(j)].Add(b.WorldPosition)
			if !pa.ApproxEqualThreshold(pb, 1e-5) {
				t.Fatalf("seam vertex %d: %v vs %v", j, pa, pb)
			}
			na := a.Mesh.Normals[ia(j)]
			nb := b.Mesh.Normals[ib(j)]
			if !na.ApproxEqualThreshold(nb, 1e-4) {
				t.Fatalf("seam normal %d: %v vs %v", j, na, nb)
			}
		}
	}

	a, _ := c.Chunk(ChunkCoord{0, 0})
	right, _ := c.Chunk(ChunkCoord{1, 0})
	up, _ := c.Chunk(ChunkCoord{0, 1})

	// Last column of a against first column of its +X neighbour
	check(a, right, func(j int) int { return j*v + v - 1 }, func(j int) int { return j * v })
	// Last row of a against first row of its +Z neighbour
	check(a, up, func(j int) int { return (v-1)*v + j }, func(j int) int { return j })
}

func TestViewerCrossingRetessellatesTwoChunks(t *testing.T) {
	layout := testLayout(3, 4)
	c := newCoordinator(t, layout, LODPolicy{Near: 0, Far: 1})

	if err := c.Build(); err != nil {
		t.Fatal(err)
	}
	for _, ch := range c.Chunks() {
		if ch.LOD != 1 {
			t.Fatalf("chunk %v at lod %d before the viewer is placed", ch.Coord, ch.LOD)
		}
	}

	changed, err := c.UpdateViewer(layout.ChunkPosition(ChunkCoord{1, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(changed, []ChunkCoord{{1, 1}}) {
		t.Fatalf("entering the world changed %v", changed)
	}

	before := map[ChunkCoord]*Chunk{}
	for _, ch := range c.Chunks() {
		before[ch.Coord] = ch
	}

	// Moving inside the same chunk changes nothing
	changed, _ = c.UpdateViewer(layout.ChunkPosition(ChunkCoord{1, 1}).Add(mgl32.Vec3{1, 0, 1}))
	if changed != nil {
		t.Fatalf("moving within a chunk changed %v", changed)
	}

	changed, err = c.UpdateViewer(layout.ChunkPosition(ChunkCoord{2, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(changed, []ChunkCoord{{1, 1}, {2, 1}}) {
		t.Fatalf("crossing changed %v, want the old and new chunk", changed)
	}

	for _, ch := range c.Chunks() {
		switch ch.Coord {
		case ChunkCoord{1, 1}:
			if ch.LOD != 1 || len(ch.Mesh.Vertices) != 9 {
				t.Fatalf("old chunk lod %d with %d vertices", ch.LOD, len(ch.Mesh.Vertices))
			}
		case ChunkCoord{2, 1}:
			if ch.LOD != 0 || len(ch.Mesh.Vertices) != 25 {
				t.Fatalf("new chunk lod %d with %d vertices", ch.LOD, len(ch.Mesh.Vertices))
			}
		default:
			if before[ch.Coord] != ch {
				t.Fatalf("chunk %v was rebuilt", ch.Coord)
			}
		}
	}

	// Leaving the world drops the current chunk back to far detail
	changed, _ = c.UpdateViewer(mgl32.Vec3{1000, 0, 0})
	if !slices.Equal(changed, []ChunkCoord{{2, 1}}) {
		t.Fatalf("leaving the world changed %v", changed)
	}
	if c.LODFor(ChunkCoord{2, 1}) != 1 {
		t.Fatal("no chunk should be near once the viewer leaves")
	}
}

func TestCoordinatorErrors(t *testing.T) {
	layout := testLayout(2, 4)
	tess := mesh.NewTessellator(config.MeshConfig{VertexSpacing: 1, Ceiling: 1, BorderWidth: 1}, nil)

	if _, err := NewCoordinator(layout, LODPolicy{Near: 0, Far: 2}, tess, nil); !errors.Is(err, mesh.ErrUnsupportedLOD) {
		t.Fatalf("stride 3 on 4 cells: %v", err)
	}
	wide := mesh.NewTessellator(config.MeshConfig{VertexSpacing: 1, Ceiling: 1, BorderWidth: 2}, nil)
	if _, err := NewCoordinator(layout, LODPolicy{}, wide, nil); err == nil {
		t.Fatal("expected error for mismatched border width")
	}

	c, err := NewCoordinator(layout, LODPolicy{Near: 0, Far: 1}, tess, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Build(); !errors.Is(err, ErrNoHeightField) {
		t.Fatalf("Build without field: %v", err)
	}
	small, _ := heightmap.New(5, 5)
	if err := c.SetHeightField(small); !errors.Is(err, ErrFieldSize) {
		t.Fatalf("SetHeightField(5x5): %v", err)
	}
	if err := c.SetHeightField(nil); !errors.Is(err, ErrFieldSize) {
		t.Fatalf("SetHeightField(nil): %v", err)
	}

	if err := c.SetHeightField(noiseMaster(t, layout)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ChunkData(ChunkCoord{2, 0}); !errors.Is(err, ErrChunkOutOfRange) {
		t.Fatalf("ChunkData out of range: %v", err)
	}
	data, err := c.ChunkData(ChunkCoord{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if data.Field.Width != layout.WindowSize() || data.LOD != 1 {
		t.Fatalf("chunk data %dx%d lod %d", data.Field.Width, data.Field.Height, data.LOD)
	}
}

func TestNewLayoutFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	layout := NewLayout(cfg.World, cfg.Mesh)
	if layout.ChunkCells != cfg.World.ChunkCells || layout.BorderWidth != cfg.Mesh.BorderWidth {
		t.Fatalf("layout %+v", layout)
	}
	if layout.MasterSize() != cfg.World.Size*cfg.World.ChunkCells+1+2*cfg.Mesh.BorderWidth {
		t.Fatalf("master size %d", layout.MasterSize())
	}
}
