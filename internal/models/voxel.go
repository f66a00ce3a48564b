package models

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxVoxels bounds width*height*depth before the voxel buffer is allocated.
const MaxVoxels = 1 << 24

// RGB is an opaque 24-bit color
type RGB struct {
	R, G, B uint8
}

// String formats the color as a hex triple.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Float returns the color channels scaled to [0, 1].
func (c RGB) Float() [3]float64 {
	return [3]float64{
		float64(c.R) / 255.0,
		float64(c.G) / 255.0,
		float64(c.B) / 255.0,
	}
}

// Voxel is a solid-colored cube centered at Position
type Voxel struct {
	Position r3.Vec
	Color    RGB
}

// VoxelModel is the voxelized form of a raster image
type VoxelModel struct {
	// Voxels are ordered by source pixel (row-major), then depth layer
	// front to back
	Voxels []Voxel

	// Unit is the half-extent of every voxel cube
	Unit float64

	// Width, Height and Depth describe the source grid the voxels were
	// laid out on
	Width, Height, Depth int
}

// Count returns the number of voxels in the model.
func (m *VoxelModel) Count() int {
	return len(m.Voxels)
}

// Spacing is the distance between neighbouring voxel centers.
func (m *VoxelModel) Spacing() float64 {
	return 2 * m.Unit
}

// GridIndex maps a voxel position back onto the source grid. It is the
// inverse of the placement used by the voxelizer.
func (m *VoxelModel) GridIndex(v Voxel) (x, y, layer int) {
	s := m.Spacing()
	x = roundIndex((v.Position.X + float64(m.Width)/2.0*s) / s)
	y = roundIndex((v.Position.Y + float64(m.Height)/2.0*s) / s)
	layer = roundIndex((float64(m.Depth)/2.0*s - v.Position.Z) / s)
	return x, y, layer
}

func roundIndex(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
