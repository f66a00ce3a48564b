// Package stl writes triangle soups as binary STL files.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// HeaderSize is the fixed size of the free-form binary STL header
const HeaderSize = 80

// TriangleSize is the on-disk size of one facet record
const TriangleSize = 50

// Triangle is one STL facet
type Triangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32

	// Attribute is the facet's attribute byte count field. Many tools read
	// it as a 15-bit color, see PackColor.
	Attribute uint16
}

// NewTriangle builds a facet from three corners in counter-clockwise order;
// the normal is derived from the winding.
func NewTriangle(a, b, c r3.Vec) Triangle {
	n := r3.Triangle{a, b, c}.Normal()
	if norm := r3.Norm(n); norm > 0 {
		n = r3.Scale(1/norm, n)
	}
	return Triangle{
		Normal:  vec32(n),
		Vertex1: vec32(a),
		Vertex2: vec32(b),
		Vertex3: vec32(c),
	}
}

func vec32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// PackColor encodes an RGB color into the 15-bit attribute layout with the
// "valid color" bit set.
func PackColor(r, g, b uint8) uint16 {
	return 1<<15 | uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
}

// WriteSTL encodes triangles to w. header is truncated or zero padded to
// HeaderSize bytes.
func WriteSTL(w io.Writer, header string, triangles []Triangle) error {
	var h [HeaderSize]byte
	copy(h[:], header)
	if _, err := w.Write(h[:]); err != nil {
		return err
	}
	if uint64(len(triangles)) > math.MaxUint32 {
		return fmt.Errorf("too many triangles: %d", len(triangles))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return err
	}

	var rec [TriangleSize]byte
	for _, t := range triangles {
		off := 0
		for _, v := range [][3]float32{t.Normal, t.Vertex1, t.Vertex2, t.Vertex3} {
			for _, f := range v {
				binary.LittleEndian.PutUint32(rec[off:], math.Float32bits(f))
				off += 4
			}
		}
		binary.LittleEndian.PutUint16(rec[off:], t.Attribute)
		if _, err := w.Write(rec[:]); err != nil {
			return err
		}
	}
	return nil
}

// SaveToSTL writes triangles to filename, replacing any existing file.
func SaveToSTL(filename string, triangles []Triangle) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := WriteSTL(w, "pixvox binary STL", triangles); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// ReadSTL decodes a binary STL stream.
func ReadSTL(r io.Reader) ([]Triangle, error) {
	var h [HeaderSize]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	triangles := make([]Triangle, 0, min(int(count), 1<<20))
	var rec [TriangleSize]byte
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		var t Triangle
		off := 0
		for _, v := range []*[3]float32{&t.Normal, &t.Vertex1, &t.Vertex2, &t.Vertex3} {
			for k := range v {
				v[k] = math.Float32frombits(binary.LittleEndian.Uint32(rec[off:]))
				off += 4
			}
		}
		t.Attribute = binary.LittleEndian.Uint16(rec[off:])
		triangles = append(triangles, t)
	}
	return triangles, nil
}
