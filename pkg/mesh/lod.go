package mesh

// MaxLOD is the coarsest level SupportedLODs considers
const MaxLOD = 6

// Stride returns the vertex step of a level of detail
func Stride(lod int) int { return lod + 1 }

// VerticesPerLine returns the real vertices per side for a chunk of cells quads
// at lod; it assumes the stride divides cells.
func VerticesPerLine(cells, lod int) int {
	return cells/Stride(lod) + 1
}

// SupportedLODs lists the levels in [0, MaxLOD] whose stride divides cells
func SupportedLODs(cells int) []int {
	var lods []int
	for lod := 0; lod <= MaxLOD; lod++ {
		if cells > 0 && cells%Stride(lod) == 0 {
			lods = append(lods, lod)
		}
	}
	return lods
}

// Counts are the exact buffer sizes of one tessellation
type Counts struct {
	MeshVertices   int
	BorderVertices int
	MeshIndices    int
	BorderIndices  int
}

// CountsFor returns buffer sizes for a chunk of cells quads with border rings at lod
func CountsFor(cells, border, lod int) Counts {
	v := VerticesPerLine(cells, lod)
	full := v + 2*border
	return Counts{
		MeshVertices:   v * v,
		BorderVertices: full*full - v*v,
		MeshIndices:    6 * (v - 1) * (v - 1),
		BorderIndices:  6 * ((full-1)*(full-1) - (v-1)*(v-1)),
	}
}
