// Package caption composes a one-sentence image description from detected
// colors, pseudo-objects, and brightness.
package caption

import (
	"strings"

	"github.com/hyperjump/shikisai/internal/models"
)

// Fallback is the caption returned when composition fails for any reason.
const Fallback = "A photograph"

// Caption brightness bands. These differ from the mood-mapping bands on the
// bright side (200 here, 180 there).
const (
	brightAbove = 200.0
	darkBelow   = 80.0
)

// Compose builds a caption like "A bright blue and green landscape image":
// a brightness prefix, up to two color names (or "colorful"), an optional
// orientation label, always ending in "image". Any internal failure yields
// the fixed fallback instead of an error.
func Compose(colors []string, objects []models.DetectedObject, brightness float64) (caption string) {
	defer func() {
		if recover() != nil {
			caption = Fallback
		}
	}()

	parts := make([]string, 0, 4)

	switch {
	case brightness > brightAbove:
		parts = append(parts, "A bright")
	case brightness < darkBelow:
		parts = append(parts, "A dark")
	default:
		parts = append(parts, "A")
	}

	switch {
	case len(colors) >= 2:
		parts = append(parts, colors[0]+" and "+colors[1])
	case len(colors) == 1:
		parts = append(parts, colors[0])
	default:
		parts = append(parts, "colorful")
	}

	if name, ok := orientationLabel(objects); ok {
		parts = append(parts, name)
	}
	parts = append(parts, "image")

	return strings.Join(parts, " ")
}

// orientationLabel returns the first landscape or portrait object name.
func orientationLabel(objects []models.DetectedObject) (string, bool) {
	for _, obj := range objects {
		if obj.Name == models.ObjectLandscape || obj.Name == models.ObjectPortrait {
			return obj.Name, true
		}
	}
	return "", false
}
