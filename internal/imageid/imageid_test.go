package imageid

import (
	"strings"
	"testing"
)

func TestImageIDDeterministic(t *testing.T) {
	id1 := ImageID("/photos/cat.jpg")
	id2 := ImageID("/photos/cat.jpg")
	if id1 != id2 {
		t.Errorf("same path gave different IDs: %q vs %q", id1, id2)
	}
	if len(id1) != 64 {
		t.Errorf("ID length = %d, want 64 hex chars", len(id1))
	}
}

func TestImageIDDistinctPaths(t *testing.T) {
	if ImageID("/photos/cat.jpg") == ImageID("/photos/dog.jpg") {
		t.Error("different paths gave the same ID")
	}
}

func TestImageIDNormalizesPath(t *testing.T) {
	id1 := ImageID("/photos/cat.jpg")
	id2 := ImageID("/photos/./cat.jpg")
	id3 := ImageID("/photos//cat.jpg")
	if id1 != id2 || id1 != id3 {
		t.Errorf("path variants disagree: %q %q %q", id1, id2, id3)
	}
}

func TestSidecarName(t *testing.T) {
	name := SidecarName("/photos/cat.jpg")
	if !strings.HasSuffix(name, ".json") {
		t.Errorf("sidecar name %q missing .json suffix", name)
	}
	if strings.ContainsAny(name, "/\\: ") {
		t.Errorf("sidecar name %q not filename-safe", name)
	}
	if name != ImageID("/photos/cat.jpg")+".json" {
		t.Errorf("sidecar name %q does not match ID", name)
	}
}
