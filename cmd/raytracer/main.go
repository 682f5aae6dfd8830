// raytracer renders a YAML scene description to a PNG image.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/maxkl/raytracer"
	"github.com/maxkl/raytracer/asset"
	"github.com/maxkl/raytracer/render"
)

var outPath = flag.String("out", "render.png", "Path to write the rendered PNG to")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raytracer - offline Whitted-style ray tracer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raytracer [options] <scene.yaml>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scenePath string) error {
	asset.SetInstance(asset.DefaultLoader{})

	data, err := os.ReadFile(scenePath)
	if err != nil {
		return fmt.Errorf("read scene file: %w", err)
	}

	s, err := raytracer.LoadSceneYAML(data)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	start := time.Now()
	img := render.New(s).Render()
	fmt.Fprintf(os.Stderr, "rendered %dx%d in %s\n", img.Width, img.Height, time.Since(start))

	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, toImage(img)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func toImage(img *render.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := (y*img.Width + x) * 3
			out.SetRGBA(x, y, color.RGBA{
				R: img.Pixels[i],
				G: img.Pixels[i+1],
				B: img.Pixels[i+2],
				A: 255,
			})
		}
	}
	return out
}
