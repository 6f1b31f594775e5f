package mesh

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"landscape/internal/logger"
	"landscape/internal/util"
	"landscape/pkg/config"
	"landscape/pkg/heightmap"
)

var (
	// ErrNotSquare is returned for a bordered field with unequal sides
	ErrNotSquare = errors.New("mesh: height field is not square")
	// ErrMissingVertexParameters is returned when spacing or border width is unset
	ErrMissingVertexParameters = errors.New("mesh: vertex spacing and border width must be set")
	// ErrUnsupportedLOD is returned when the LOD stride does not divide the interior
	ErrUnsupportedLOD = errors.New("mesh: lod stride does not divide the chunk")
	// ErrFieldTooSmall is returned when the field has no interior quad
	ErrFieldTooSmall = errors.New("mesh: height field too small for its border")
)

// Mesh is the renderable part of a tessellation. Normals are unnormalized
// sums of face normals, including faces that touch border samples.
type Mesh struct {
	Vertices  []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Triangles []uint32
}

// TriangleCount returns the number of triangles
func (m Mesh) TriangleCount() int { return len(m.Triangles) / 3 }

// Empty reports whether the mesh has no geometry
func (m Mesh) Empty() bool { return len(m.Vertices) == 0 }

// Bounds returns the axis-aligned extent of the vertices
func (m Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return min, max
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}

// Tessellator turns bordered height fields into chunk meshes
type Tessellator struct {
	VertexSpacing float32
	Elevation     heightmap.Elevation
	BorderWidth   int

	log *logger.Logger
}

// NewTessellator creates a tessellator from mesh config; a nil logger discards output
func NewTessellator(cfg config.MeshConfig, log *logger.Logger) *Tessellator {
	if log == nil {
		log = logger.Nop()
	}
	return &Tessellator{
		VertexSpacing: float32(cfg.VertexSpacing),
		Elevation:     heightmap.Elevation{Floor: float32(cfg.Floor), Ceiling: float32(cfg.Ceiling)},
		BorderWidth:   cfg.BorderWidth,
		log:           log.With("mesh"),
	}
}

// Tessellate builds the mesh of a bordered square field at lod. The outer
// BorderWidth rings are border samples: they shape the normals of the edge
// vertices but are not emitted. On error the mesh is empty.
func (t *Tessellator) Tessellate(field *heightmap.HeightField, lod int) (Mesh, error) {
	if t == nil || t.VertexSpacing <= 0 || t.BorderWidth < 1 {
		return Mesh{}, ErrMissingVertexParameters
	}
	if !field.IsSquare() {
		return Mesh{}, fmt.Errorf("%w: %dx%d", ErrNotSquare, field.Width, field.Height)
	}

	b := t.BorderWidth
	side := field.Width
	n := side - 2*b // real samples per side at full detail
	if n < 2 {
		return Mesh{}, fmt.Errorf("%w: side %d, border %d", ErrFieldTooSmall, side, b)
	}
	s := Stride(lod)
	if lod < 0 || (n-1)%s != 0 {
		return Mesh{}, fmt.Errorf("%w: lod %d, %d cells", ErrUnsupportedLOD, lod, n-1)
	}

	start := time.Now()
	counts := CountsFor(n-1, b, lod)
	data := newMeshData(counts)

	interior := func(c int) bool { return c >= b && c < b+n }
	kept := func(c int) bool { return !interior(c) || (c-b)%s == 0 }

	// Index map: every kept sample gets a tagged slot
	refs := make([]vertexRef, side*side)
	var nextReal, nextBorder uint32
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if !kept(x) || !kept(y) {
				continue
			}
			if interior(x) && interior(y) {
				refs[y*side+x] = vertexRef{realVertex, nextReal}
				nextReal++
			} else {
				refs[y*side+x] = vertexRef{borderVertex, nextBorder}
				nextBorder++
			}
		}
	}

	// Centre the real grid on the origin
	half := float32(n-1) * t.VertexSpacing / 2
	uvScale := 1 / float32(n-1)

	// Cells touching a border ring stay at full resolution so the border
	// ring lines up with the neighbouring chunk at any lod
	stride := func(c int) int {
		if c < b || c >= b+n-1 {
			return 1
		}
		return s
	}

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			ref := refs[y*side+x]
			if ref.kind == skippedVertex {
				continue
			}

			pos := mgl32.Vec3{
				float32(x-b)*t.VertexSpacing - half,
				t.Elevation.World(field.At(x, y)),
				float32(y-b)*t.VertexSpacing - half,
			}
			uv := mgl32.Vec2{float32(x-b) * uvScale, float32(y-b) * uvScale}
			data.setVertex(ref, pos, uv)

			if x > side-2 || y > side-2 {
				continue
			}

			sx, sy := stride(x), stride(y)
			a := ref
			bb := refs[(y+sy)*side+x]
			c := refs[(y+sy)*side+x+sx]
			d := refs[y*side+x+sx]
			data.addTriangle(a, bb, c)
			data.addTriangle(a, c, d)
		}
	}

	data.calculateNormals()

	if len(data.triangles) != counts.MeshIndices || len(data.borderTriangles) != counts.BorderIndices {
		t.log.Errorf("index buffers off their pre-sized lengths: mesh %d/%d, border %d/%d",
			len(data.triangles), counts.MeshIndices, len(data.borderTriangles), counts.BorderIndices)
	}
	t.log.Debugf("tessellated %dx%d at lod %d: %d vertices, %d triangles in %.1fms",
		side, side, lod, counts.MeshVertices, counts.MeshIndices/3, util.TimeTrack(start))

	return data.mesh(), nil
}
