// Package asset loads the textures and meshes a scene description
// references. RgbImage is the packed row-major pixel buffer every
// decoded texture is normalized into; Loader is the pluggable backend
// (image codecs, mesh parser) that produces one from a file path, with
// a single process-wide instance reached through Instance().
package asset

import "github.com/maxkl/raytracer/scene"

// RgbImage is a packed row-major 3-byte-per-pixel image, the common
// format every decoded texture is converted into regardless of its
// source codec.
type RgbImage struct {
	width, height int
	data          []byte
}

// NewRgbImage allocates a zeroed w x h image.
func NewRgbImage(w, h int) *RgbImage {
	return &RgbImage{width: w, height: h, data: make([]byte, w*h*3)}
}

func (img *RgbImage) pixelIndex(x, y int) int {
	return (y*img.width + x) * 3
}

// PutPixel sets the pixel at (x, y) to the given RGB triple.
func (img *RgbImage) PutPixel(x, y int, r, g, b byte) {
	i := img.pixelIndex(x, y)
	img.data[i] = r
	img.data[i+1] = g
	img.data[i+2] = b
}

// GetPixel returns the RGB triple at (x, y).
func (img *RgbImage) GetPixel(x, y int) (r, g, b byte) {
	i := img.pixelIndex(x, y)
	return img.data[i], img.data[i+1], img.data[i+2]
}

// Dimensions satisfies scene.ImageSource.
func (img *RgbImage) Dimensions() (width, height int) {
	return img.width, img.height
}

// ColorAt satisfies scene.ImageSource, returning linear [0,1] color.
func (img *RgbImage) ColorAt(x, y int) scene.Color {
	r, g, b := img.GetPixel(x, y)
	return scene.Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
	}
}
