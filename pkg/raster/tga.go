package raster

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"pixvox/internal/models"
	"pixvox/pkg/voxerr"
)

const (
	tgaHeaderSize            = 18
	tgaUncompressedTrueColor = 2
	tgaBitsPerPixel          = 32
	tgaTopLeftOrigin         = 1 << 5
)

// tgaHeader mirrors the 18 byte on-disk header, little endian.
type tgaHeader struct {
	IDLength        uint8
	ColorMapType    uint8
	DataTypeCode    uint8
	ColorMapOrigin  uint16
	ColorMapLength  uint16
	ColorMapDepth   uint8
	XOrigin         int16
	YOrigin         int16
	Width           uint16
	Height          uint16
	BitsPerPixel    uint8
	ImageDescriptor uint8
}

type tgaDecoder struct{}

func (tgaDecoder) Decode(r io.Reader) (*models.RasterImage, error) {
	const op = "decode tga"

	var h tgaHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if isShortRead(err) {
			return nil, voxerr.Format(op, "", "invalid header")
		}
		return nil, voxerr.IO(op, "", err, "could not read image header")
	}

	if h.DataTypeCode != tgaUncompressedTrueColor {
		return nil, voxerr.Format(op, "", "not uncompressed true-color data (type %d)", h.DataTypeCode)
	}
	if h.BitsPerPixel != tgaBitsPerPixel {
		return nil, voxerr.Format(op, "", "not 32-bit RGBA (%d bits per pixel)", h.BitsPerPixel)
	}
	if err := checkDimensions(op, int(h.Width), int(h.Height)); err != nil {
		return nil, err
	}

	// image id and an unused color map may sit between header and pixels
	skip := int64(h.IDLength)
	if h.ColorMapType != 0 {
		skip += int64(h.ColorMapLength) * int64((int(h.ColorMapDepth)+7)/8)
	}
	if skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			if isShortRead(err) {
				return nil, voxerr.Format(op, "", "invalid header: image id or color map truncated")
			}
			return nil, voxerr.IO(op, "", err, "could not read image header")
		}
	}

	img := models.NewRasterImage(int(h.Width), int(h.Height))
	if _, err := io.ReadFull(r, img.Pixels); err != nil {
		if isShortRead(err) {
			return nil, voxerr.Format(op, "", "truncated pixel data: expected %d bytes", len(img.Pixels))
		}
		return nil, voxerr.IO(op, "", err, "could not read pixel data")
	}
	return img, nil
}

// EncodeTGA writes img as an uncompressed 32-bit TGA with a top-left origin.
func EncodeTGA(w io.Writer, img *models.RasterImage) error {
	if !img.Valid() {
		return voxerr.Format("encode tga", "", "pixel buffer does not match %dx%d", img.Width, img.Height)
	}
	h := tgaHeader{
		DataTypeCode:    tgaUncompressedTrueColor,
		Width:           uint16(img.Width),
		Height:          uint16(img.Height),
		BitsPerPixel:    tgaBitsPerPixel,
		ImageDescriptor: tgaTopLeftOrigin | 8,
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return voxerr.IO("encode tga", "", err, "could not write header")
	}
	if _, err := w.Write(img.Pixels); err != nil {
		return voxerr.IO("encode tga", "", err, "could not write pixel data")
	}
	return nil
}

func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
