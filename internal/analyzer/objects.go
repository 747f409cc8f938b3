package analyzer

import (
	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/internal/raster"
)

// Heuristic thresholds for the pseudo-object detections. Orientation
// comparisons are strict, so an aspect ratio of exactly 1.5 or 0.67
// yields no orientation object.
const (
	landscapeAspectAbove = 1.5
	portraitAspectBelow  = 0.67

	highResolutionPixels   = 2000000
	mediumResolutionPixels = 500000

	brightImageAbove = 200.0
	darkImageBelow   = 80.0
)

// Confidence is fixed per detection class.
const (
	orientationConfidence = 0.9
	resolutionConfidence  = 0.8
	brightnessConfidence  = 0.7
)

// detectObjects derives pseudo-objects from image geometry and
// brightness: an optional orientation, exactly one resolution class, and
// an optional brightness class, in that order. Every bounding box covers
// the full frame.
func detectObjects(im *raster.Image, brightness float64) []models.DetectedObject {
	fullFrame := models.BoundingBox{X: 0, Y: 0, Width: im.Width(), Height: im.Height()}
	objects := []models.DetectedObject{}

	aspect := im.AspectRatio()
	if aspect > landscapeAspectAbove {
		objects = append(objects, models.DetectedObject{
			Name:        models.ObjectLandscape,
			Confidence:  orientationConfidence,
			BoundingBox: fullFrame,
		})
	} else if aspect < portraitAspectBelow {
		objects = append(objects, models.DetectedObject{
			Name:        models.ObjectPortrait,
			Confidence:  orientationConfidence,
			BoundingBox: fullFrame,
		})
	}

	var resolution string
	switch {
	case im.Pixels() > highResolutionPixels:
		resolution = models.ObjectHighResolution
	case im.Pixels() > mediumResolutionPixels:
		resolution = models.ObjectMediumResolution
	default:
		resolution = models.ObjectLowResolution
	}
	objects = append(objects, models.DetectedObject{
		Name:        resolution,
		Confidence:  resolutionConfidence,
		BoundingBox: fullFrame,
	})

	if brightness > brightImageAbove {
		objects = append(objects, models.DetectedObject{
			Name:        models.ObjectBrightImage,
			Confidence:  brightnessConfidence,
			BoundingBox: fullFrame,
		})
	} else if brightness < darkImageBelow {
		objects = append(objects, models.DetectedObject{
			Name:        models.ObjectDarkImage,
			Confidence:  brightnessConfidence,
			BoundingBox: fullFrame,
		})
	}

	return objects
}
