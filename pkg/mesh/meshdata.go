package mesh

import "github.com/go-gl/mathgl/mgl32"

type vertexKind uint8

const (
	skippedVertex vertexKind = iota
	realVertex
	borderVertex
)

// vertexRef is a tagged slot in either the real or the border vertex array
type vertexRef struct {
	kind  vertexKind
	index uint32
}

// meshData collects real and border geometry separately. Border vertices and
// triangles only feed normal accumulation and are never emitted.
type meshData struct {
	vertices []mgl32.Vec3
	uvs      []mgl32.Vec2
	normals  []mgl32.Vec3

	borderVertices []mgl32.Vec3
	borderNormals  []mgl32.Vec3

	triangles       []uint32
	borderTriangles []vertexRef
}

func newMeshData(c Counts) *meshData {
	return &meshData{
		vertices:        make([]mgl32.Vec3, c.MeshVertices),
		uvs:             make([]mgl32.Vec2, c.MeshVertices),
		normals:         make([]mgl32.Vec3, c.MeshVertices),
		borderVertices:  make([]mgl32.Vec3, c.BorderVertices),
		borderNormals:   make([]mgl32.Vec3, c.BorderVertices),
		triangles:       make([]uint32, 0, c.MeshIndices),
		borderTriangles: make([]vertexRef, 0, c.BorderIndices),
	}
}

func (m *meshData) setVertex(ref vertexRef, pos mgl32.Vec3, uv mgl32.Vec2) {
	switch ref.kind {
	case realVertex:
		m.vertices[ref.index] = pos
		m.uvs[ref.index] = uv
	case borderVertex:
		m.borderVertices[ref.index] = pos
	}
}

func (m *meshData) position(ref vertexRef) mgl32.Vec3 {
	if ref.kind == borderVertex {
		return m.borderVertices[ref.index]
	}
	return m.vertices[ref.index]
}

func (m *meshData) addTriangle(a, b, c vertexRef) {
	if a.kind == realVertex && b.kind == realVertex && c.kind == realVertex {
		m.triangles = append(m.triangles, a.index, b.index, c.index)
		return
	}
	m.borderTriangles = append(m.borderTriangles, a, b, c)
}

func (m *meshData) accumulate(ref vertexRef, n mgl32.Vec3) {
	if ref.kind == borderVertex {
		m.borderNormals[ref.index] = m.borderNormals[ref.index].Add(n)
		return
	}
	m.normals[ref.index] = m.normals[ref.index].Add(n)
}

// faceNormal is the unnormalized (B-A) x (C-A)
func (m *meshData) faceNormal(a, b, c vertexRef) mgl32.Vec3 {
	pa := m.position(a)
	return m.position(b).Sub(pa).Cross(m.position(c).Sub(pa))
}

// calculateNormals sums face normals of real and border triangles into every corner
func (m *meshData) calculateNormals() {
	for i := 0; i < len(m.triangles); i += 3 {
		a := vertexRef{realVertex, m.triangles[i]}
		b := vertexRef{realVertex, m.triangles[i+1]}
		c := vertexRef{realVertex, m.triangles[i+2]}
		n := m.faceNormal(a, b, c)
		m.accumulate(a, n)
		m.accumulate(b, n)
		m.accumulate(c, n)
	}

	for i := 0; i < len(m.borderTriangles); i += 3 {
		a, b, c := m.borderTriangles[i], m.borderTriangles[i+1], m.borderTriangles[i+2]
		n := m.faceNormal(a, b, c)
		m.accumulate(a, n)
		m.accumulate(b, n)
		m.accumulate(c, n)
	}
}

func (m *meshData) mesh() Mesh {
	return Mesh{
		Vertices:  m.vertices,
		UVs:       m.uvs,
		Normals:   m.normals,
		Triangles: m.triangles,
	}
}
