// Package raster decodes source images into models.RasterImage values.
//
// Supported inputs form a closed set of formats selected by file extension.
// Every decoder yields the same buffer layout: 4 bytes per pixel in blue,
// green, red, alpha order, rows top to bottom as stored in the file.
package raster

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pixvox/internal/models"
	"pixvox/pkg/voxerr"
)

// Decoder turns an encoded image stream into a RasterImage.
type Decoder interface {
	Decode(r io.Reader) (*models.RasterImage, error)
}

// Format enumerates the supported raster inputs
type Format int

const (
	FormatTGA Format = iota + 1
	FormatBMP
)

// Formats lists every supported format in lookup order.
func Formats() []Format {
	return []Format{FormatTGA, FormatBMP}
}

func (f Format) String() string {
	switch f {
	case FormatTGA:
		return "TGA"
	case FormatBMP:
		return "BMP"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatTGA:
		return ".tga"
	case FormatBMP:
		return ".bmp"
	}
	return ""
}

// Decoder returns the decoder for the format.
func (f Format) Decoder() Decoder {
	switch f {
	case FormatTGA:
		return tgaDecoder{}
	case FormatBMP:
		return bmpDecoder{}
	}
	return nil
}

// FormatForPath picks a format from the extension of path.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return 0, voxerr.Unsupported("load image", path, "image doesn't have a valid extension")
	}
	for _, f := range Formats() {
		if f.Extension() == ext {
			return f, nil
		}
	}
	return 0, voxerr.Unsupported("load image", path, "image extension %q is unsupported", ext)
}

// Load reads and decodes the image at path.
func Load(path string) (*models.RasterImage, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, voxerr.IO("load image", path, err, "could not open image")
	}
	defer file.Close()

	img, err := format.Decoder().Decode(bufio.NewReader(file))
	if err != nil {
		return nil, voxerr.WithPath(err, path)
	}
	return img, nil
}

func checkDimensions(op string, width, height int) error {
	if width < 1 || width > models.MaxDimension || height < 1 || height > models.MaxDimension {
		return voxerr.Format(op, "", "dimension too large: %dx%d, each side must be in [1, %d]",
			width, height, models.MaxDimension)
	}
	return nil
}
