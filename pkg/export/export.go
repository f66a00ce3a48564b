// Package export writes voxel models as mesh files.
//
// The output format is chosen from the file extension out of a closed set:
// Wavefront OBJ with a companion MTL material file, binary glTF, and
// binary STL.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"pixvox/internal/models"
	"pixvox/pkg/voxerr"
)

// Generator and Version identify pixvox in file headers.
const (
	Generator = "pixvox"
	Version   = "0.1.0"
)

// Encoder writes a model to path, creating or replacing it.
type Encoder interface {
	Encode(m *models.VoxelModel, path string) error
}

// Format enumerates the supported mesh outputs
type Format int

const (
	FormatOBJ Format = iota + 1
	FormatGLB
	FormatSTL
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatOBJ, FormatGLB, FormatSTL}
}

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "OBJ"
	case FormatGLB:
		return "GLB"
	case FormatSTL:
		return "STL"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatOBJ:
		return ".obj"
	case FormatGLB:
		return ".glb"
	case FormatSTL:
		return ".stl"
	}
	return ""
}

// Encoder returns the writer for the format.
func (f Format) Encoder() Encoder {
	switch f {
	case FormatOBJ:
		return objEncoder{}
	case FormatGLB:
		return glbEncoder{}
	case FormatSTL:
		return stlEncoder{}
	}
	return nil
}

// FormatForPath picks an output format from the extension of path.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return 0, voxerr.Unsupported("export", path, "model doesn't have a valid extension")
	}
	for _, f := range Formats() {
		if f.Extension() == ext {
			return f, nil
		}
	}
	return 0, voxerr.Unsupported("export", path, "model extension %q is unsupported", ext)
}

// Export writes m to path in the format implied by its extension.
func Export(m *models.VoxelModel, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	return format.Encoder().Encode(m, path)
}

// MaterialPath returns the companion material file for an OBJ path: same
// directory and base name, ".mtl" extension.
func MaterialPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
}

// MaterialName is the name of the material with index i.
func MaterialName(i int) string {
	return fmt.Sprintf("color_%d", i)
}
