package models

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// TestRasterImageSetAt verifies the B,G,R,A byte layout
func TestRasterImageSetAt(t *testing.T) {
	img := NewRasterImage(3, 2)
	if !img.Valid() {
		t.Fatalf("new image should be valid")
	}

	img.Set(2, 1, RGB{R: 10, G: 20, B: 30}, 40)

	i := (1*3 + 2) * BytesPerPixel
	got := img.Pixels[i : i+4]
	want := []byte{30, 20, 10, 40}
	for k := range want {
		if got[k] != want[k] {
			t.Fatalf("Expected bytes %v, got %v", want, got)
		}
	}

	c, a := img.At(2, 1)
	if c != (RGB{R: 10, G: 20, B: 30}) || a != 40 {
		t.Errorf("At returned %v/%d", c, a)
	}
}

func TestRasterImageValid(t *testing.T) {
	img := NewRasterImage(2, 2)
	img.Pixels = img.Pixels[:len(img.Pixels)-1]
	if img.Valid() {
		t.Error("short buffer should be invalid")
	}

	var nilImg *RasterImage
	if nilImg.Valid() {
		t.Error("nil image should be invalid")
	}
}

// TestGridIndex checks that GridIndex inverts voxel placement
func TestGridIndex(t *testing.T) {
	m := &VoxelModel{Unit: 0.5, Width: 4, Height: 3, Depth: 2}
	s := m.Spacing()

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			for j := 0; j < m.Depth; j++ {
				v := Voxel{Position: r3.Vec{
					X: float64(x)*s - float64(m.Width)/2.0*s,
					Y: float64(y)*s - float64(m.Height)/2.0*s,
					Z: float64(m.Depth)/2.0*s - float64(j)*s,
				}}
				gx, gy, gj := m.GridIndex(v)
				if gx != x || gy != y || gj != j {
					t.Errorf("GridIndex(%v) = %d,%d,%d, want %d,%d,%d", v.Position, gx, gy, gj, x, y, j)
				}
			}
		}
	}
}

func TestRGBFloat(t *testing.T) {
	f := RGB{R: 255, G: 0, B: 51}.Float()
	if f[0] != 1 || f[1] != 0 || f[2] != 0.2 {
		t.Errorf("unexpected float color %v", f)
	}
	if s := (RGB{R: 255, G: 16, B: 1}).String(); s != "#ff1001" {
		t.Errorf("unexpected string %q", s)
	}
}
