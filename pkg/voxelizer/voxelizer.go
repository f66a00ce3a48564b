// Package voxelizer turns opaque raster pixels into colored voxel columns.
package voxelizer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"pixvox/internal/models"
	"pixvox/pkg/voxerr"
)

// Params controls voxel placement
type Params struct {
	// Depth is the number of voxel layers each opaque pixel is extruded into
	Depth int

	// Unit is the half-extent of a voxel; neighbouring centers are 2*Unit apart
	Unit float64
}

// Validate checks that depth and unit are usable.
func (p Params) Validate() error {
	if p.Depth <= 0 {
		return voxerr.Config("voxelize", "depth must be greater than 0, got %d", p.Depth)
	}
	if !(p.Unit > 0) || math.IsInf(p.Unit, 0) {
		return voxerr.Config("voxelize", "unit must be a finite value greater than 0, got %v", p.Unit)
	}
	return nil
}

// Voxelize builds a model from img. The image is read only.
//
// Pixels are visited row by row from the top; each opaque pixel yields
// Depth voxels from the front layer (largest z) backwards.
func Voxelize(img *models.RasterImage, p Params) (*models.VoxelModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, voxerr.Format("voxelize", "", "no image")
	}
	if !img.Valid() {
		return nil, voxerr.Format("voxelize", "", "pixel buffer does not match %dx%d", img.Width, img.Height)
	}

	capacity := img.Width * img.Height
	if p.Depth > models.MaxVoxels/capacity {
		return nil, voxerr.Allocation("voxelize",
			"failed to allocate enough memory for voxels: %dx%d pixels at depth %d exceeds %d voxels",
			img.Width, img.Height, p.Depth, models.MaxVoxels)
	}

	opaque := CountOpaque(img)
	voxels := make([]models.Voxel, 0, opaque*p.Depth)

	spacing := p.Unit * 2.0
	xx := float64(img.Width) / 2.0 * spacing
	yy := float64(img.Height) / 2.0 * spacing
	zz := float64(p.Depth) / 2.0 * spacing

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c, alpha := img.At(x, y)
			if alpha == 0 {
				continue
			}

			px := float64(x)*spacing - xx
			py := float64(y)*spacing - yy
			for j := 0; j < p.Depth; j++ {
				voxels = append(voxels, models.Voxel{
					Position: r3.Vec{X: px, Y: py, Z: zz - float64(j)*spacing},
					Color:    c,
				})
			}
		}
	}

	return &models.VoxelModel{
		Voxels: voxels,
		Unit:   p.Unit,
		Width:  img.Width,
		Height: img.Height,
		Depth:  p.Depth,
	}, nil
}

// CountOpaque returns the number of pixels with non-zero alpha.
func CountOpaque(img *models.RasterImage) int {
	n := 0
	for i := 3; i < len(img.Pixels); i += img.BytesPerPixel {
		if img.Pixels[i] != 0 {
			n++
		}
	}
	return n
}
