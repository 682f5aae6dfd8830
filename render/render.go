// Package render drives the pixel loop: one goroutine per scanline,
// joined with a sync.WaitGroup. Each scanline owns its own *rand.Rand
// for anti-aliasing jitter so that two renders of the same scene
// produce identical images regardless of goroutine scheduling.
package render

import (
	"math"
	"math/rand"
	"sync"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/internal/vecmath"
	"github.com/maxkl/raytracer/ray"
	"github.com/maxkl/raytracer/scene"
)

// Image is a packed row-major RGB8 framebuffer.
type Image struct {
	Width, Height int
	Pixels        []byte // 3 bytes per pixel
}

func newImage(w, h int) *Image {
	return &Image{Width: w, Height: h, Pixels: make([]byte, w*h*3)}
}

func (img *Image) set(x, y int, c scene.Color) {
	r, g, b := c.Clamp().ToRGB8()
	i := (y*img.Width + x) * 3
	img.Pixels[i] = r
	img.Pixels[i+1] = g
	img.Pixels[i+2] = b
}

// Renderer renders one Scene.
type Renderer struct {
	scene *scene.Scene
}

// New builds a Renderer for s.
func New(s *scene.Scene) *Renderer {
	return &Renderer{scene: s}
}

// Render produces the full image, one goroutine per scanline.
func (r *Renderer) Render() *Image {
	s := r.scene
	img := newImage(s.ImageWidth, s.ImageHeight)

	var wg sync.WaitGroup
	wg.Add(s.ImageHeight)
	for y := 0; y < s.ImageHeight; y++ {
		go r.traceScanLine(img, y, &wg)
	}
	wg.Wait()

	return img
}

const jitterStdDev = 0.4

func (r *Renderer) traceScanLine(img *Image, y int, wg *sync.WaitGroup) {
	defer wg.Done()

	s := r.scene
	rng := rand.New(rand.NewSource(int64(uint64(y) * 0x9E3779B97F4A7C15)))

	samples := s.AASamples
	if samples < 1 {
		samples = 1
	}

	for x := 0; x < s.ImageWidth; x++ {
		var sum scene.Color
		for i := 0; i < samples; i++ {
			dx, dy := float32(0), float32(0)
			if samples > 1 {
				dx = float32(rng.NormFloat64()) * jitterStdDev
				dy = float32(rng.NormFloat64()) * jitterStdDev
			}
			camRay := ray.FromScreen(float32(x)+dx, float32(y)+dy, s.ImageWidth, s.ImageHeight, s.Camera.FieldOfView)
			worldRay := s.Camera.ToWorldRay(camRay)
			sampleColor := r.castRay(worldRay, 0)
			if s.DebugKDLookups {
				tint := minf32(float32(*worldRay.Lookups), 100) / 100
				sampleColor.R += tint
			}
			sum = sum.Add(sampleColor)
		}
		img.set(x, y, sum.Scaled(1/float32(samples)))
	}
}

func (r *Renderer) castRay(cameraRay ray.Ray, depth int) scene.Color {
	s := r.scene
	if depth > s.MaxRecursionDepth {
		return scene.Black()
	}

	obj, hit, ok := s.Trace(cameraRay)
	if !ok {
		return s.ClearColor
	}
	return r.getColor(cameraRay, obj, hit, depth)
}

func (r *Renderer) getColor(incident ray.Ray, obj *scene.Object, hit ray.Hit, depth int) scene.Color {
	s := r.scene
	mat := s.Materials[obj.MaterialIndex]

	isRefractive := mat.Transparency > 0
	isReflective := mat.Reflectivity > 0 || isRefractive

	diffuse := r.shadeDiffuse(mat, hit, incident.Lookups)

	reflective := scene.Black()
	if isReflective {
		reflRay := ray.Reflect(hit.Normal, incident.Direction, hit.Point, incident.Lookups)
		reflective = r.castRay(reflRay, depth+1)
	}

	refractive := scene.Black()
	if isRefractive {
		kr := fresnelReflectivity(hit.Normal, incident.Direction, mat.RefractiveIndex)

		transmitted := scene.Black()
		if transRay, ok := ray.Transmit(hit.Normal, incident.Direction, hit.Point, mat.RefractiveIndex, incident.Lookups); ok {
			transmitted = r.castRay(transRay, depth+1)
		}

		refractive = reflective.Scaled(kr).Add(transmitted.Scaled(1 - kr))
	}

	direct := diffuse.Scaled(1 - mat.Reflectivity - mat.Transparency)
	result := direct.Add(reflective.Scaled(mat.Reflectivity)).Add(refractive.Scaled(mat.Transparency))
	return result.Clamp()
}

func (r *Renderer) shadeDiffuse(mat scene.Material, hit ray.Hit, lookups *int) scene.Color {
	s := r.scene
	materialColor := mat.Color.ColorAt(hit.TexCoords)

	color := materialColor.Mul(s.AmbientLightColor)

	for _, light := range s.Lights {
		toLight := light.DirectionFrom(hit.Point)

		offset := hit.Normal.Scaled(1e-5)
		shadowOrigin := vec3.Add(&hit.Point, &offset)
		shadowRay := ray.Ray{Origin: shadowOrigin, Direction: toLight, Lookups: lookups}
		_, shadowHit, shadowOK := s.Trace(shadowRay)

		inLight := true
		if shadowOK {
			inLight = shadowHit.Distance > light.DistanceAt(hit.Point)
		}
		if !inLight {
			continue
		}

		lightPower := maxf32(vecmathDot(hit.Normal, toLight), 0) * light.IntensityAt(hit.Point)
		reflectionFactor := mat.Albedo / math.Pi
		color = color.Add(materialColor.Mul(light.Color).Scaled(lightPower * reflectionFactor))
	}

	return color.Clamp()
}

func fresnelReflectivity(normal, incident [3]float32, refractiveIndex float32) float32 {
	iDotN := vecmathDot(normal, incident)
	var etaI, etaT float32
	if iDotN < 0 {
		iDotN = -iDotN
		etaT, etaI = refractiveIndex, 1
	} else {
		etaT, etaI = 1, refractiveIndex
	}

	sinThetaT := etaI / etaT * float32(math.Sqrt(float64(1-iDotN*iDotN)))
	if sinThetaT >= 1 {
		return 1
	}

	cosThetaT := float32(math.Sqrt(float64(1 - sinThetaT*sinThetaT)))
	rs := (etaT*iDotN - etaI*cosThetaT) / (etaT*iDotN + etaI*cosThetaT)
	rp := (etaI*iDotN - etaT*cosThetaT) / (etaI*iDotN + etaT*cosThetaT)
	return 0.5 * (rs*rs + rp*rp)
}

func vecmathDot(a, b [3]float32) float32 {
	return vecmath.Dot(a, b)
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
