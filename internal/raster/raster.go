package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Image wraps a decoded image. Region coordinates used with MeanRGB are
// zero-based regardless of the source's bounds origin.
type Image struct {
	src    image.Image
	format string
	width  int
	height int
}

// New wraps an already decoded image. format is the registered format
// name, or empty when unknown.
func New(src image.Image, format string) *Image {
	b := src.Bounds()
	return &Image{
		src:    src,
		format: format,
		width:  b.Dx(),
		height: b.Dy(),
	}
}

// Format returns the registered format name the bytes decoded as ("png",
// "jpeg", ...).
func (im *Image) Format() string { return im.format }

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.height }

// Pixels returns the total pixel count.
func (im *Image) Pixels() int { return im.width * im.height }

// AspectRatio returns width divided by height.
func (im *Image) AspectRatio() float64 {
	if im.height == 0 {
		return 1.0
	}
	return float64(im.width) / float64(im.height)
}

// Bounds returns the full image as a zero-based rectangle.
func (im *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, im.width, im.height)
}

// Regions returns the five sampling rectangles used for dominant color
// aggregation: the four quadrants and a half-size center crop. Rectangles
// use exclusive max bounds and integer division, so tiny images may produce
// empty regions; callers skip those.
func (im *Image) Regions() []image.Rectangle {
	w, h := im.width, im.height
	return []image.Rectangle{
		image.Rect(0, 0, w/2, h/2),
		image.Rect(w/2, 0, w, h/2),
		image.Rect(0, h/2, w/2, h),
		image.Rect(w/2, h/2, w, h),
		image.Rect(w/4, h/4, 3*w/4, 3*h/4),
	}
}

// MeanRGB returns the mean red, green, and blue channel values over region.
// The region is clipped to the image; a region with no pixels is an error.
func (im *Image) MeanRGB(region image.Rectangle) (float64, float64, float64, error) {
	bounds := im.src.Bounds()
	rect := region.Add(bounds.Min).Intersect(bounds)
	if rect.Empty() {
		return 0, 0, 0, fmt.Errorf("region %v has no pixels", region)
	}
	var rSum, gSum, bSum uint64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := color.RGBAModel.Convert(im.src.At(x, y)).(color.RGBA)
			rSum += uint64(c.R)
			gSum += uint64(c.G)
			bSum += uint64(c.B)
		}
	}
	n := float64(rect.Dx()) * float64(rect.Dy())
	return float64(rSum) / n, float64(gSum) / n, float64(bSum) / n, nil
}

// MeanLuminance returns the global mean luminance in 0..255 using Rec.601
// weights. An image with no measurable pixels reports the neutral midpoint
// 128.
func (im *Image) MeanLuminance() float64 {
	r, g, b, err := im.MeanRGB(im.Bounds())
	if err != nil {
		return 128.0
	}
	return 0.299*r + 0.587*g + 0.114*b
}
