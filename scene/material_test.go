package scene

import (
	"testing"

	"github.com/maxkl/raytracer/ray"
)

// checkerImage is a 2x2 ImageSource alternating black and white, used
// to exercise the wraparound sampling math without depending on the
// asset package.
type checkerImage struct{}

func (checkerImage) Dimensions() (int, int) { return 2, 2 }

func (checkerImage) ColorAt(x, y int) Color {
	if (x+y)%2 == 0 {
		return Color{R: 1, G: 1, B: 1}
	}
	return Black()
}

func TestTextureSampleNearestWraps(t *testing.T) {
	tex := Texture{Image: checkerImage{}}

	// u=1.4 wraps to texel x=round(1.4*2)=3 -> mod 2 = 1.
	c := tex.SampleNearest(ray.TexCoords{U: 1.4, V: 0})
	if c != tex.Image.ColorAt(1, 0) {
		t.Fatalf("got %+v, want %+v", c, tex.Image.ColorAt(1, 0))
	}
}

func TestTextureSampleBilinearExactTexelMatchesNearest(t *testing.T) {
	tex := Texture{Image: checkerImage{}}

	c := tex.SampleBilinear(ray.TexCoords{U: 0, V: 0})
	want := tex.Image.ColorAt(0, 0)
	if c != want {
		t.Fatalf("got %+v, want %+v", c, want)
	}
}

func TestColorationSolidIgnoresTexCoords(t *testing.T) {
	col := SolidColor(Color{R: 0.5, G: 0.25, B: 0.1})
	got := col.ColorAt(ray.TexCoords{U: 0.9, V: 0.9})
	if got != (Color{R: 0.5, G: 0.25, B: 0.1}) {
		t.Fatalf("got %+v", got)
	}
}

func TestColorationTextureSamplesBilinear(t *testing.T) {
	col := TexturedColor(Texture{Image: checkerImage{}})
	got := col.ColorAt(ray.TexCoords{U: 0, V: 0})
	if got != (Color{R: 1, G: 1, B: 1}) {
		t.Fatalf("got %+v, want white", got)
	}
}
