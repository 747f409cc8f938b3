package analyzer

import (
	"image"
	"testing"

	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/internal/raster"
)

func blankImage(w, h int) *raster.Image {
	return raster.New(image.NewRGBA(image.Rect(0, 0, w, h)), "png")
}

func objectNames(objects []models.DetectedObject) []string {
	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		names = append(names, obj.Name)
	}
	return names
}

func hasName(objects []models.DetectedObject, name string) bool {
	for _, obj := range objects {
		if obj.Name == name {
			return true
		}
	}
	return false
}

func TestDetectObjectsOrientation(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want string
	}{
		{"wide", 300, 100, models.ObjectLandscape},
		{"tall", 100, 300, models.ObjectPortrait},
		{"square", 100, 100, ""},
		{"exactly 1.5 stays unclassified", 150, 100, ""},
		{"barely above 1.5", 151, 100, models.ObjectLandscape},
		{"exactly 0.67 stays unclassified", 67, 100, ""},
		{"barely below 0.67", 66, 100, models.ObjectPortrait},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := detectObjects(blankImage(tt.w, tt.h), 128)
			gotLandscape := hasName(objects, models.ObjectLandscape)
			gotPortrait := hasName(objects, models.ObjectPortrait)
			switch tt.want {
			case models.ObjectLandscape:
				if !gotLandscape || gotPortrait {
					t.Errorf("objects = %v, want landscape only", objectNames(objects))
				}
			case models.ObjectPortrait:
				if !gotPortrait || gotLandscape {
					t.Errorf("objects = %v, want portrait only", objectNames(objects))
				}
			default:
				if gotLandscape || gotPortrait {
					t.Errorf("objects = %v, want no orientation object", objectNames(objects))
				}
			}
		})
	}
}

func TestDetectObjectsResolution(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want string
	}{
		{"above two megapixels", 2000, 1001, models.ObjectHighResolution},
		{"exactly two megapixels", 2000, 1000, models.ObjectMediumResolution},
		{"above half a megapixel", 1000, 501, models.ObjectMediumResolution},
		{"exactly half a megapixel", 1000, 500, models.ObjectLowResolution},
		{"tiny", 10, 10, models.ObjectLowResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := detectObjects(blankImage(tt.w, tt.h), 128)
			if !hasName(objects, tt.want) {
				t.Errorf("objects = %v, want %q", objectNames(objects), tt.want)
			}
			// Exactly one resolution class fires.
			count := 0
			for _, name := range []string{models.ObjectHighResolution, models.ObjectMediumResolution, models.ObjectLowResolution} {
				if hasName(objects, name) {
					count++
				}
			}
			if count != 1 {
				t.Errorf("objects = %v, want exactly one resolution class", objectNames(objects))
			}
		})
	}
}

func TestDetectObjectsBrightness(t *testing.T) {
	tests := []struct {
		name       string
		brightness float64
		want       string
	}{
		{"bright", 220, models.ObjectBrightImage},
		{"exactly 200 stays unclassified", 200, ""},
		{"midrange", 128, ""},
		{"exactly 80 stays unclassified", 80, ""},
		{"dark", 40, models.ObjectDarkImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := detectObjects(blankImage(100, 100), tt.brightness)
			gotBright := hasName(objects, models.ObjectBrightImage)
			gotDark := hasName(objects, models.ObjectDarkImage)
			switch tt.want {
			case models.ObjectBrightImage:
				if !gotBright || gotDark {
					t.Errorf("objects = %v, want bright_image only", objectNames(objects))
				}
			case models.ObjectDarkImage:
				if !gotDark || gotBright {
					t.Errorf("objects = %v, want dark_image only", objectNames(objects))
				}
			default:
				if gotBright || gotDark {
					t.Errorf("objects = %v, want no brightness object", objectNames(objects))
				}
			}
		})
	}
}

func TestDetectObjectsOrderAndBoxes(t *testing.T) {
	objects := detectObjects(blankImage(300, 100), 250)

	want := []string{models.ObjectLandscape, models.ObjectLowResolution, models.ObjectBrightImage}
	got := objectNames(objects)
	if len(got) != len(want) {
		t.Fatalf("objects = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("objects[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	wantBox := models.BoundingBox{X: 0, Y: 0, Width: 300, Height: 100}
	for i, obj := range objects {
		if obj.BoundingBox != wantBox {
			t.Errorf("objects[%d] box = %+v, want full frame %+v", i, obj.BoundingBox, wantBox)
		}
	}
}

func TestDetectObjectsConfidences(t *testing.T) {
	objects := detectObjects(blankImage(300, 100), 40)

	wantScores := map[string]float64{
		models.ObjectLandscape:     0.9,
		models.ObjectLowResolution: 0.8,
		models.ObjectDarkImage:     0.7,
	}
	for _, obj := range objects {
		if want, ok := wantScores[obj.Name]; !ok || obj.Confidence != want {
			t.Errorf("%s confidence = %v, want %v", obj.Name, obj.Confidence, wantScores[obj.Name])
		}
	}
}
