package models

// MaxDimension is the largest accepted raster width or height in pixels.
// Raising it changes no algorithm; it only bounds memory for the raster and
// the voxel buffer derived from it.
const MaxDimension = 32

// BytesPerPixel is the fixed channel depth of a RasterImage (B, G, R, A).
const BytesPerPixel = 4

// RasterImage is a decoded source image held in on-disk channel order
type RasterImage struct {
	// Width is the number of pixels per row
	Width int

	// Height is the number of rows
	Height int

	// BytesPerPixel is always 4: blue, green, red, alpha
	BytesPerPixel int

	// Pixels holds Width*Height*BytesPerPixel bytes, rows top to bottom
	// in the order they were stored in the file
	Pixels []byte
}

// NewRasterImage allocates a zeroed image of the given size.
func NewRasterImage(width, height int) *RasterImage {
	return &RasterImage{
		Width:         width,
		Height:        height,
		BytesPerPixel: BytesPerPixel,
		Pixels:        make([]byte, width*height*BytesPerPixel),
	}
}

// Valid reports whether the pixel buffer matches the declared dimensions.
func (img *RasterImage) Valid() bool {
	return img != nil &&
		img.Width > 0 && img.Height > 0 &&
		img.BytesPerPixel == BytesPerPixel &&
		len(img.Pixels) == img.Width*img.Height*img.BytesPerPixel
}

// At returns the color and alpha of the pixel at column x, row y.
func (img *RasterImage) At(x, y int) (RGB, uint8) {
	i := (y*img.Width + x) * img.BytesPerPixel
	p := img.Pixels[i : i+img.BytesPerPixel]
	return RGB{R: p[2], G: p[1], B: p[0]}, p[3]
}

// Set stores a color and alpha at column x, row y.
func (img *RasterImage) Set(x, y int, c RGB, alpha uint8) {
	i := (y*img.Width + x) * img.BytesPerPixel
	img.Pixels[i+0] = c.B
	img.Pixels[i+1] = c.G
	img.Pixels[i+2] = c.R
	img.Pixels[i+3] = alpha
}
