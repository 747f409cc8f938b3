// Package raster decodes image bytes and exposes the pixel statistics the
// analysis pipeline needs: per-region channel means, global luminance, and
// basic geometry.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"os"

	// Registered decoders. Analysis never re-encodes, so only Decode support
	// matters here.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode parses image bytes in any registered format.
func Decode(data []byte) (*Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return New(src, format), nil
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(data)
}
