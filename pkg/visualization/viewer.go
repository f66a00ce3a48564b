package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"pixvox/internal/models"
)

// Viewer cuts a voxel model into 2D slices along its grid axes
type Viewer struct {
	// cells holds the color of every occupied grid cell, indexed
	// layer*width*height + y*width + x
	cells    []color.NRGBA
	occupied []bool

	// dimensions of the source grid
	width  int
	height int
	depth  int
}

// NewViewer rebuilds the voxel grid of m from the voxel positions.
func NewViewer(m *models.VoxelModel) *Viewer {
	n := m.Width * m.Height * m.Depth
	v := &Viewer{
		cells:    make([]color.NRGBA, n),
		occupied: make([]bool, n),
		width:    m.Width,
		height:   m.Height,
		depth:    m.Depth,
	}
	for _, vox := range m.Voxels {
		x, y, z := m.GridIndex(vox)
		if x < 0 || x >= v.width || y < 0 || y >= v.height || z < 0 || z >= v.depth {
			continue
		}
		idx := v.index(x, y, z)
		v.cells[idx] = color.NRGBA{R: vox.Color.R, G: vox.Color.G, B: vox.Color.B, A: 0xff}
		v.occupied[idx] = true
	}
	return v
}

func (v *Viewer) index(x, y, z int) int {
	return z*v.width*v.height + y*v.width + x
}

// Occupied reports whether the cell at x, y, layer z holds a voxel. Cells
// outside the grid are empty.
func (v *Viewer) Occupied(x, y, z int) bool {
	if x < 0 || x >= v.width || y < 0 || y >= v.height || z < 0 || z >= v.depth {
		return false
	}
	return v.occupied[v.index(x, y, z)]
}

// ExtractSlice returns the cells of one plane. Axis "z" cuts a depth layer
// (0 is the front), "x" a column and "y" a row. Empty cells are transparent.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.NRGBA

	switch axis {
	case "x", "X":
		// YZ plane, depth runs left to right
		if position >= v.width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.width)
		}
		img = image.NewNRGBA(image.Rect(0, 0, v.depth, v.height))
		for y := 0; y < v.height; y++ {
			for z := 0; z < v.depth; z++ {
				img.SetNRGBA(z, y, v.cells[v.index(position, y, z)])
			}
		}

	case "y", "Y":
		// XZ plane, depth runs top to bottom
		if position >= v.height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.height)
		}
		img = image.NewNRGBA(image.Rect(0, 0, v.width, v.depth))
		for z := 0; z < v.depth; z++ {
			for x := 0; x < v.width; x++ {
				img.SetNRGBA(x, z, v.cells[v.index(x, position, z)])
			}
		}

	case "z", "Z":
		if position >= v.depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.depth)
		}
		img = image.NewNRGBA(image.Rect(0, 0, v.width, v.height))
		for y := 0; y < v.height; y++ {
			for x := 0; x < v.width; x++ {
				img.SetNRGBA(x, y, v.cells[v.index(x, y, position)])
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSlice writes an extracted slice as a PNG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return err
	}
	return file.Close()
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.width
	case "y", "Y":
		maxPos = v.height
	case "z", "Z":
		maxPos = v.depth
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
