package world

import "landscape/pkg/heightmap"

// Sample copies the bordered window of chunk (chunkX, chunkY) out of the
// master field. The window side is cells+1+2*border and starts at
// (chunkX*cells, chunkY*cells), so neighbouring windows share their edge line.
// The master field must be at least MasterSize on each side; Sample does not clamp.
func Sample(field *heightmap.HeightField, chunkX, chunkY, cells, border int) *heightmap.HeightField {
	side := cells + 1 + 2*border
	return field.Window(chunkX*cells, chunkY*cells, side, side)
}
