// Package e2e provides end-to-end tests; this file builds image files for the
// formats the analyzer decodes.
package e2e

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// SupportedImageExtensions is the list of file extensions used in E2E
// file-based tests. Covers stdlib formats (.png, .jpg, .gif) and x/image
// formats (.bmp, .tiff). WebP is decode-only in x/image, so no .webp
// fixtures are generated.
var SupportedImageExtensions = []string{".png", ".jpg", ".gif", ".bmp", ".tiff"}

// SolidImage returns a w×h image filled with a single color.
func SolidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// SplitImage returns a w×h image whose left half is filled with left and
// whose right half is filled with right.
func SplitImage(w, h int, left, right color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), &image.Uniform{C: left}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w/2, 0, w, h), &image.Uniform{C: right}, image.Point{}, draw.Src)
	return img
}

// EncodeImage serializes img in the format implied by ext. GIF output is
// paletted from the image's own colors so flat fixtures survive the round
// trip exactly; JPEG is lossy and may shift channel means by a point or two.
func EncodeImage(ext string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch ext {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case ".gif":
		err = gif.Encode(&buf, palettedCopy(img), nil)
	case ".bmp":
		err = bmp.Encode(&buf, img)
	case ".tiff", ".tif":
		err = tiff.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("no encoder for %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ext, err)
	}
	return buf.Bytes(), nil
}

// palettedCopy converts img to a paletted image built from its own colors,
// falling back to the default GIF quantizer when there are more than 256.
func palettedCopy(img image.Image) image.Image {
	b := img.Bounds()
	seen := make(map[color.RGBA]bool)
	pal := make(color.Palette, 0, 256)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			c := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)}
			if !seen[c] {
				if len(pal) == 256 {
					return img
				}
				seen[c] = true
				pal = append(pal, c)
			}
		}
	}
	pm := image.NewPaletted(b, pal)
	draw.Draw(pm, b, img, b.Min, draw.Src)
	return pm
}
