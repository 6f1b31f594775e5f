package heightmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when a field dimension is not positive
	ErrInvalidSize = errors.New("heightmap: width and height must be positive")
	// ErrIndexOutOfRange is returned by stack mutations with a bad position
	ErrIndexOutOfRange = errors.New("heightmap: layer index out of range")
	// ErrUnknownLayerType is returned for a layer tag with no constructor
	ErrUnknownLayerType = errors.New("heightmap: unknown layer type")
)

// HeightField is a row-major grid of elevation samples.
// Values[y*Width+x] holds the sample at column x, row y.
type HeightField struct {
	Width  int
	Height int
	Values []float32
}

// New creates a zero-filled height field
func New(width, height int) (*HeightField, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &HeightField{
		Width:  width,
		Height: height,
		Values: make([]float32, width*height),
	}, nil
}

// FromRows builds a field from rows of equal length, mainly for tests and fixtures
func FromRows(rows [][]float32) (*HeightField, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidSize
	}
	f, _ := New(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != f.Width {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidSize, y, len(row), f.Width)
		}
		copy(f.Values[y*f.Width:], row)
	}
	return f, nil
}

// Index returns the flat offset of (x, y)
func (f *HeightField) Index(x, y int) int { return y*f.Width + x }

// At returns the sample at (x, y)
func (f *HeightField) At(x, y int) float32 { return f.Values[y*f.Width+x] }

// Set overwrites the sample at (x, y)
func (f *HeightField) Set(x, y int, v float32) { f.Values[y*f.Width+x] = v }

// Add adds delta to the sample at (x, y)
func (f *HeightField) Add(x, y int, delta float32) { f.Values[y*f.Width+x] += delta }

// InBounds reports whether (x, y) is a valid cell
func (f *HeightField) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// IsSquare reports whether the field has equal sides
func (f *HeightField) IsSquare() bool { return f.Width == f.Height }

// Cells returns the number of samples
func (f *HeightField) Cells() int { return len(f.Values) }

// Clone returns a deep copy
func (f *HeightField) Clone() *HeightField {
	values := make([]float32, len(f.Values))
	copy(values, f.Values)
	return &HeightField{Width: f.Width, Height: f.Height, Values: values}
}

// Sum returns the total of all samples, accumulated in float64
func (f *HeightField) Sum() float64 {
	total := 0.0
	for _, v := range f.Values {
		total += float64(v)
	}
	return total
}

// Range returns the minimum and maximum sample
func (f *HeightField) Range() (min, max float32) {
	if len(f.Values) == 0 {
		return 0, 0
	}
	min, max = f.Values[0], f.Values[0]
	for _, v := range f.Values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Window copies the w x h block whose top-left sample is (x0, y0).
// The caller guarantees the block lies inside the field.
func (f *HeightField) Window(x0, y0, w, h int) *HeightField {
	out := &HeightField{Width: w, Height: h, Values: make([]float32, w*h)}
	for y := 0; y < h; y++ {
		src := (y0+y)*f.Width + x0
		copy(out.Values[y*w:(y+1)*w], f.Values[src:src+w])
	}
	return out
}

// Elevation maps normalized samples to world height: Floor + (Ceiling-Floor)*v.
// It is the only height law used by meshes and erosion trails.
type Elevation struct {
	Floor   float32
	Ceiling float32
}

// World converts a sample to world-space height
func (e Elevation) World(v float32) float32 {
	return e.Floor + (e.Ceiling-e.Floor)*v
}
