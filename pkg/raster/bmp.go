package raster

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"

	"pixvox/internal/models"
	"pixvox/pkg/voxerr"
)

const (
	bmpFileHeaderSize = 14
	bmpMinInfoSize    = 40
	bmpRGB            = 0
	bmpBitfields      = 3

	// maxBMPSize caps how much of a stream is buffered: a largest accepted
	// image plus generous room for headers and masks
	maxBMPSize = 4096 + models.MaxDimension*models.MaxDimension*4
)

type bmpDecoder struct{}

func (bmpDecoder) Decode(r io.Reader) (*models.RasterImage, error) {
	const op = "decode bmp"

	data, err := io.ReadAll(io.LimitReader(r, maxBMPSize+1))
	if err != nil {
		return nil, voxerr.IO(op, "", err, "could not read image")
	}
	if len(data) < bmpFileHeaderSize+bmpMinInfoSize || data[0] != 'B' || data[1] != 'M' {
		return nil, voxerr.Format(op, "", "invalid header")
	}

	info := data[bmpFileHeaderSize:]
	bitsPerPixel := binary.LittleEndian.Uint16(info[14:16])
	compression := binary.LittleEndian.Uint32(info[16:20])
	if compression != bmpRGB && compression != bmpBitfields {
		return nil, voxerr.Format(op, "", "not uncompressed (compression %d)", compression)
	}
	if bitsPerPixel != 32 {
		return nil, voxerr.Format(op, "", "not 32-bit RGBA (%d bits per pixel)", bitsPerPixel)
	}

	cfg, err := bmp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, voxerr.FormatCause(op, "", err, "invalid header")
	}
	if err := checkDimensions(op, cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if len(data) > maxBMPSize {
		return nil, voxerr.Format(op, "", "trailing data after pixel array")
	}

	decoded, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, voxerr.FormatCause(op, "", err, "truncated pixel data")
	}
	return fromImage(decoded), nil
}

// fromImage repacks any image.Image into the B,G,R,A layout with straight
// (non-premultiplied) alpha.
func fromImage(src image.Image) *models.RasterImage {
	b := src.Bounds()
	img := models.NewRasterImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			img.Set(x, y, models.RGB{R: c.R, G: c.G, B: c.B}, c.A)
		}
	}
	return img
}
