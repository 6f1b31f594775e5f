package heightmap

import (
	"fmt"

	"landscape/internal/util"
)

// DrawMode selects how a layer's value is composited onto the field
type DrawMode int

// Draw modes
const (
	Mix DrawMode = iota
	Add
	Subtract
	Multiply
	Overwrite
)

var drawModeNames = map[DrawMode]string{
	Mix:       "mix",
	Add:       "add",
	Subtract:  "subtract",
	Multiply:  "multiply",
	Overwrite: "overwrite",
}

// String returns the config tag of the mode
func (m DrawMode) String() string {
	if name, ok := drawModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DrawMode(%d)", int(m))
}

// ParseDrawMode converts a config tag to a DrawMode
func ParseDrawMode(tag string) (DrawMode, error) {
	for mode, name := range drawModeNames {
		if name == tag {
			return mode, nil
		}
	}
	return Mix, fmt.Errorf("unknown draw mode %q", tag)
}

// Blend holds the compositing settings shared by every layer
type Blend struct {
	Mode     DrawMode
	Strength float32 // 0-2
}

// Apply composites value onto existing
func (b Blend) Apply(existing, value float32) float32 {
	switch b.Mode {
	case Add:
		return existing + value*b.Strength
	case Subtract:
		return existing - value*b.Strength
	case Multiply:
		return existing * value * b.Strength
	case Overwrite:
		return value * b.Strength
	default:
		return util.Lerp(existing, value, b.Strength)
	}
}

// draw evaluates fn for every cell and blends the result in place
func (b Blend) draw(field *HeightField, fn func(x, y int) float32) {
	for y := 0; y < field.Height; y++ {
		row := field.Values[y*field.Width : (y+1)*field.Width]
		for x := range row {
			row[x] = b.Apply(row[x], fn(x, y))
		}
	}
}
