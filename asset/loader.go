package asset

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/maxkl/raytracer/kdtree"
	"github.com/maxkl/raytracer/objfmt"
)

// Loader loads the two asset kinds a scene description references by
// path: textures and triangle meshes.
type Loader interface {
	LoadImage(path string) (*RgbImage, error)
	LoadObj(path string) (*kdtree.MeshData, error)
}

var (
	instance     Loader
	instanceOnce sync.Once
)

// SetInstance installs the process-wide Loader. It must be called at
// most once, before the first call to Instance; sync.Once gives the
// set-once, read-many contract a OnceCell would in a language that
// has one.
func SetInstance(l Loader) {
	instanceOnce.Do(func() {
		instance = l
	})
}

// Instance returns the process-wide Loader. It panics if SetInstance
// was never called.
func Instance() Loader {
	if instance == nil {
		panic("asset: instance not set")
	}
	return instance
}

// DefaultLoader decodes textures with the standard library's PNG/JPEG
// codecs plus golang.org/x/image's BMP/TIFF codecs, and meshes with
// objfmt.Parse.
type DefaultLoader struct{}

func (DefaultLoader) LoadImage(path string) (*RgbImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open image file %q: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	case ".bmp":
		img, err = bmp.Decode(f)
	case ".tif", ".tiff":
		img, err = tiff.Decode(f)
	default:
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to decode image file %q: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewRgbImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.PutPixel(x, y, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}
	return out, nil
}

func (DefaultLoader) LoadObj(path string) (*kdtree.MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open mesh file %q: %w", path, err)
	}
	defer f.Close()

	data, err := objfmt.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("unable to parse mesh file %q: %w", path, err)
	}
	return data, nil
}
