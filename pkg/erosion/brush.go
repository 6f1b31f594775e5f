package erosion

import (
	"fmt"
	"math"
)

// BrushCell is one weighted offset of a brush, relative to the droplet's cell
type BrushCell struct {
	DX, DY int
	Weight float32
}

// Brush is a radial erosion kernel whose weights sum to 1
type Brush struct {
	Radius int
	Cells  []BrushCell
}

// NewBrush builds the kernel for radius r. Radius 1 is a uniform 2x2 quad.
// Larger radii weight every offset in [-r+1, r] by 1 - d/(r-0.5), where d is
// the distance to the cell centre (0.5, 0.5); cells at or past r-0.5 are dropped.
func NewBrush(radius int) (Brush, error) {
	if radius < 1 {
		return Brush{}, fmt.Errorf("erosion brush radius must be at least 1, got %d", radius)
	}

	if radius == 1 {
		return Brush{Radius: 1, Cells: []BrushCell{
			{0, 0, 0.25}, {1, 0, 0.25},
			{0, 1, 0.25}, {1, 1, 0.25},
		}}, nil
	}

	maxDistance := float64(radius) - 0.5
	cells := make([]BrushCell, 0, 4*radius*radius)
	total := 0.0
	weights := make([]float64, 0, 4*radius*radius)

	for dy := -radius + 1; dy <= radius; dy++ {
		for dx := -radius + 1; dx <= radius; dx++ {
			d := math.Hypot(0.5-float64(dx), 0.5-float64(dy))
			if d >= maxDistance {
				continue
			}
			w := 1 - d/maxDistance
			cells = append(cells, BrushCell{DX: dx, DY: dy})
			weights = append(weights, w)
			total += w
		}
	}

	// Normalize in float64 before narrowing
	for i := range cells {
		cells[i].Weight = float32(weights[i] / total)
	}

	return Brush{Radius: radius, Cells: cells}, nil
}

// Total returns the sum of the weights
func (b Brush) Total() float64 {
	total := 0.0
	for _, c := range b.Cells {
		total += float64(c.Weight)
	}
	return total
}
