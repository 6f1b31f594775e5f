package erosion

import (
	"github.com/go-gl/mathgl/mgl32"

	"landscape/pkg/heightmap"
)

// Trail is the path of one droplet in field space: X and Z are sample
// coordinates, Y is the raw height sample.
type Trail struct {
	FieldWidth  int
	FieldHeight int
	Points      []mgl32.Vec3
}

func (t *Trail) add(px, py, height float32) {
	t.Points = append(t.Points, mgl32.Vec3{px, height, py})
}

// World projects the trail into the same space as a mesh of the whole field:
// centred on the origin, spacing world units per sample, heights through elevation.
func (t Trail) World(spacing float32, elevation heightmap.Elevation) []mgl32.Vec3 {
	halfW := float32(t.FieldWidth-1) * spacing / 2
	halfH := float32(t.FieldHeight-1) * spacing / 2

	out := make([]mgl32.Vec3, len(t.Points))
	for i, p := range t.Points {
		out[i] = mgl32.Vec3{
			p.X()*spacing - halfW,
			elevation.World(p.Y()),
			p.Z()*spacing - halfH,
		}
	}
	return out
}
