package scene

import (
	"math"

	"github.com/maxkl/raytracer/ray"
)

// ImageSource is the minimal surface Texture needs from a decoded
// image: its pixel dimensions and linear-color lookup. asset.RgbImage
// implements this; keeping the dependency this narrow lets scene stay
// free of any image-decoding import.
type ImageSource interface {
	Dimensions() (width, height int)
	ColorAt(x, y int) Color
}

// Texture samples an ImageSource with wraparound (u, v) coordinates.
type Texture struct {
	Path  string
	Image ImageSource
}

func modulo(v, m float32) float32 {
	r := float32(math.Mod(float64(v), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// SampleNearest rounds to the closest texel, wrapping coordinates
// that fall outside [0, 1).
func (t Texture) SampleNearest(tc ray.TexCoords) Color {
	w, h := t.Image.Dimensions()
	texW, texH := float32(w), float32(h)

	x := int(modulo(float32(math.Round(float64(tc.U*texW))), texW))
	y := int(modulo(float32(math.Round(float64(tc.V*texH))), texH))
	return t.Image.ColorAt(x, y)
}

// SampleBilinear interpolates between the four texels nearest (u, v),
// wrapping each corner independently so that coordinates near the
// texture's edge blend across the seam instead of clamping.
func (t Texture) SampleBilinear(tc ray.TexCoords) Color {
	w, h := t.Image.Dimensions()
	texW, texH := float32(w), float32(h)

	texX := tc.U * texW
	texY := tc.V * texH

	x1 := float32(math.Floor(float64(texX)))
	x2 := float32(math.Ceil(float64(texX)))
	y1 := float32(math.Floor(float64(texY)))
	y2 := float32(math.Ceil(float64(texY)))

	x1w := int(modulo(x1, texW))
	x2w := int(modulo(x2, texW))
	y1w := int(modulo(y1, texH))
	y2w := int(modulo(y2, texH))

	c11 := t.Image.ColorAt(x1w, y1w)
	c21 := t.Image.ColorAt(x2w, y1w)
	c12 := t.Image.ColorAt(x1w, y2w)
	c22 := t.Image.ColorAt(x2w, y2w)

	xExact := x1 == x2
	yExact := y1 == y2
	switch {
	case xExact && yExact:
		return c11
	case yExact:
		return c11.Scaled(x2 - texX).Add(c21.Scaled(texX - x1))
	case xExact:
		return c11.Scaled(y2 - texY).Add(c12.Scaled(texY - y1))
	default:
		a := c11.Scaled((x2 - texX) * (y2 - texY))
		b := c21.Scaled((texX - x1) * (y2 - texY))
		c := c12.Scaled((x2 - texX) * (texY - y1))
		d := c22.Scaled((texX - x1) * (texY - y1))
		return a.Add(b).Add(c).Add(d)
	}
}

// Coloration is the closed Color-or-Texture union a Material's color
// field holds: a plain struct with exactly one field set, switched on
// Kind.
type ColorationKind uint8

const (
	ColorationSolid ColorationKind = iota
	ColorationTexture
)

type Coloration struct {
	Kind    ColorationKind
	Solid   Color
	Texture Texture
}

// SolidColor builds a uniform-color Coloration.
func SolidColor(c Color) Coloration {
	return Coloration{Kind: ColorationSolid, Solid: c}
}

// TexturedColor builds a texture-sampled Coloration.
func TexturedColor(t Texture) Coloration {
	return Coloration{Kind: ColorationTexture, Texture: t}
}

// ColorAt evaluates the coloration at a hit's texture coordinates.
func (c Coloration) ColorAt(tc ray.TexCoords) Color {
	switch c.Kind {
	case ColorationTexture:
		return c.Texture.SampleBilinear(tc)
	default:
		return c.Solid
	}
}

// Material collects the shading parameters shared by every Object
// that references it by index.
type Material struct {
	Color           Coloration
	Albedo          float32
	Reflectivity    float32
	Transparency    float32
	RefractiveIndex float32
}
