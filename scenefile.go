// Package raytracer ties the other packages together: it decodes a
// YAML scene description into a scene.Scene and concurrently preloads
// every texture and mesh file it references before rendering starts.
//
// Shape and Light are closed tagged unions in Go (scene.Shape is an
// interface satisfied by only three concrete types; scene.Light is a
// plain struct switched on Kind) rather than trait objects, so
// deserializing them needs a manual "type" field peek instead of a
// registry-driven #[typetag::serde] equivalent, which Go has no
// counterpart for.
package raytracer

import (
	"fmt"

	"github.com/ungerik/go3d/vec3"
	"gopkg.in/yaml.v3"

	"github.com/maxkl/raytracer/asset"
	"github.com/maxkl/raytracer/kdtree"
	"github.com/maxkl/raytracer/primitive"
	"github.com/maxkl/raytracer/scene"
)

type colorDoc struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
}

func (c colorDoc) toColor() scene.Color {
	return scene.Color{R: c.R, G: c.G, B: c.B}
}

type vec3Doc [3]float32

func (v vec3Doc) toVec3() vec3.T {
	return vec3.T{v[0], v[1], v[2]}
}

type colorationDoc struct {
	Color   *colorDoc `yaml:"color"`
	Texture *string   `yaml:"texture"`
}

type materialDoc struct {
	Color           colorationDoc `yaml:"color"`
	Albedo          float32       `yaml:"albedo"`
	Reflectivity    float32       `yaml:"reflectivity"`
	Transparency    float32       `yaml:"transparency"`
	RefractiveIndex float32       `yaml:"refractive_index"`
}

type transformDoc struct {
	Translation vec3Doc `yaml:"translation"`
	Rotation    vec3Doc `yaml:"rotation"`
	Scale       float32 `yaml:"scale"`
}

func (t transformDoc) toTransformation() scene.Transformation {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return scene.Transformation{
		Translation: t.Translation.toVec3(),
		Rotation:    t.Rotation.toVec3(),
		Scale:       scale,
	}
}

type shapeDoc struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

type objectDoc struct {
	Shape         shapeDoc     `yaml:"shape"`
	MaterialIndex int          `yaml:"material_index"`
	Transform     transformDoc `yaml:"transform"`
}

type lightDoc struct {
	Type      string   `yaml:"type"`
	Direction vec3Doc  `yaml:"direction"`
	Point     vec3Doc  `yaml:"point"`
	Color     colorDoc `yaml:"color"`
	Intensity float32  `yaml:"intensity"`
}

type cameraDoc struct {
	Position    vec3Doc `yaml:"position"`
	LookAt      vec3Doc `yaml:"look_at"`
	Up          vec3Doc `yaml:"up"`
	FieldOfView float32 `yaml:"field_of_view"`
}

func (c cameraDoc) toCamera() scene.Camera {
	if c == (cameraDoc{}) {
		return scene.DefaultCamera()
	}
	up := c.Up
	if up == (vec3Doc{}) {
		up = vec3Doc{0, 1, 0}
	}
	fov := c.FieldOfView
	if fov == 0 {
		fov = 45
	}
	return scene.Camera{
		Position:    c.Position.toVec3(),
		LookAt:      c.LookAt.toVec3(),
		Up:          up.toVec3(),
		FieldOfView: fov,
	}
}

type sceneDoc struct {
	ImageWidth        int           `yaml:"image_width"`
	ImageHeight       int           `yaml:"image_height"`
	AASamples         int           `yaml:"aa_samples"`
	ClearColor        colorDoc      `yaml:"clear_color"`
	AmbientLightColor colorDoc      `yaml:"ambient_light_color"`
	MaxRecursionDepth int           `yaml:"max_recursion_depth"`
	Camera            cameraDoc     `yaml:"camera"`
	Materials         []materialDoc `yaml:"materials"`
	Objects           []objectDoc   `yaml:"objects"`
	Lights            []lightDoc    `yaml:"lights"`
	Debug             bool          `yaml:"debug"`
}

// LoadSceneYAML parses a YAML scene description, concurrently
// preloads every texture and mesh path it references, and builds the
// scene.Scene the renderer traces against.
func LoadSceneYAML(data []byte) (*scene.Scene, error) {
	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("raytracer: decoding scene: %w", err)
	}

	paths := collectAssetPaths(doc)
	preload, err := preloadAssets(paths, asset.Instance())
	if err != nil {
		return nil, fmt.Errorf("raytracer: preloading assets: %w", err)
	}

	materials := make([]scene.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		col, err := m.Color.resolve(preload)
		if err != nil {
			return nil, err
		}
		materials[i] = scene.Material{
			Color:           col,
			Albedo:          m.Albedo,
			Reflectivity:    m.Reflectivity,
			Transparency:    m.Transparency,
			RefractiveIndex: m.RefractiveIndex,
		}
	}

	objects := make([]scene.Object, len(doc.Objects))
	for i, o := range doc.Objects {
		shape, err := resolveShape(o.Shape, preload, doc.Debug)
		if err != nil {
			return nil, err
		}
		objects[i] = scene.NewObject(shape, o.MaterialIndex, o.Transform.toTransformation())
	}

	lights := make([]scene.Light, len(doc.Lights))
	for i, l := range doc.Lights {
		light, err := l.resolve()
		if err != nil {
			return nil, err
		}
		lights[i] = light
	}

	aaSamples := doc.AASamples
	if aaSamples == 0 {
		aaSamples = 1
	}

	return &scene.Scene{
		ImageWidth:        doc.ImageWidth,
		ImageHeight:       doc.ImageHeight,
		AASamples:         aaSamples,
		ClearColor:        doc.ClearColor.toColor(),
		Materials:         materials,
		Objects:           objects,
		AmbientLightColor: doc.AmbientLightColor.toColor(),
		Lights:            lights,
		MaxRecursionDepth: doc.MaxRecursionDepth,
		Camera:            doc.Camera.toCamera(),
		DebugKDLookups:    doc.Debug,
	}, nil
}

func (c colorationDoc) resolve(preload *preloadedAssets) (scene.Coloration, error) {
	switch {
	case c.Texture != nil:
		img, ok := preload.textures[*c.Texture]
		if !ok {
			return scene.Coloration{}, fmt.Errorf("raytracer: texture %q was not preloaded", *c.Texture)
		}
		return scene.TexturedColor(scene.Texture{Path: *c.Texture, Image: img}), nil
	case c.Color != nil:
		return scene.SolidColor(c.Color.toColor()), nil
	default:
		return scene.Coloration{}, fmt.Errorf("raytracer: material color has neither color nor texture")
	}
}

func resolveShape(s shapeDoc, preload *preloadedAssets, debug bool) (scene.Shape, error) {
	switch s.Type {
	case "sphere":
		return primitive.Sphere{}, nil
	case "plane":
		return primitive.Plane{}, nil
	case "mesh":
		data, ok := preload.meshes[s.Path]
		if !ok {
			return nil, fmt.Errorf("raytracer: mesh %q was not preloaded", s.Path)
		}
		mesh := kdtree.NewMesh(*data, kdtree.Options{Debug: debug})
		return &mesh, nil
	default:
		return nil, fmt.Errorf("raytracer: unknown shape type %q", s.Type)
	}
}

func (l lightDoc) resolve() (scene.Light, error) {
	switch l.Type {
	case "directional":
		dir := l.Direction.toVec3()
		dir.Normalize()
		return scene.Light{
			Kind:      scene.LightDirectional,
			Direction: dir,
			Color:     l.Color.toColor(),
			Intensity: l.Intensity,
		}, nil
	case "point":
		return scene.Light{
			Kind:      scene.LightPoint,
			Position:  l.Point.toVec3(),
			Color:     l.Color.toColor(),
			Intensity: l.Intensity,
		}, nil
	default:
		return scene.Light{}, fmt.Errorf("raytracer: unknown light type %q", l.Type)
	}
}

func collectAssetPaths(doc sceneDoc) []assetJob {
	var jobs []assetJob
	seen := make(map[assetJob]bool)
	add := func(j assetJob) {
		if !seen[j] {
			seen[j] = true
			jobs = append(jobs, j)
		}
	}
	for _, m := range doc.Materials {
		if m.Color.Texture != nil {
			add(assetJob{kind: assetTexture, path: *m.Color.Texture})
		}
	}
	for _, o := range doc.Objects {
		if o.Shape.Type == "mesh" {
			add(assetJob{kind: assetMesh, path: o.Shape.Path})
		}
	}
	return jobs
}
