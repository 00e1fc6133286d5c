//go:build ignore

// gen_fixtures writes source images for a batch smoke test.
// Usage: go run gen_fixtures.go <output_dir>
//
//	texturec batch <output_dir> --preset soft-grey -o <output_dir>/out
//	texturec validate <output_dir>/out
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "tiles"), 0o755); err != nil {
		fail(err)
	}

	// Non power-of-two sources exercise canvas rounding.
	save(filepath.Join(dir, "stone.jpg"), checker(300, 200, 25))
	for i := 1; i <= 3; i++ {
		save(filepath.Join(dir, "tiles", fmt.Sprintf("tile-%d.png", i)), checker(64, 64, 8*i))
	}
	save(filepath.Join(dir, "decal.png"), alphaRamp(100, 60))
	save(filepath.Join(dir, "mask.bmp"), imaging.Grayscale(checker(32, 32, 4)))
	// imaging.Grayscale still returns NRGBA; this one decodes as L8.
	save(filepath.Join(dir, "height.png"), grayRamp(48, 20))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func checker(w, h, cell int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(60)
			if (x/cell+y/cell)%2 == 0 {
				v = 200
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: uint8(x * 255 / w), B: uint8(y * 255 / h), A: 255})
		}
	}
	return img
}

func alphaRamp(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: uint8(x * 255 / w)})
		}
	}
	return img
}

func grayRamp(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) * 255 / (w + h))})
		}
	}
	return img
}

func save(path string, img image.Image) {
	if err := imaging.Save(img, path, imaging.JPEGQuality(90)); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
