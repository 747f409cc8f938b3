package palette

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    string
	}{
		{"pure red", 255, 0, 0, "red"},
		{"dark red prototype", 139, 0, 0, "red"},
		{"pure green", 0, 128, 0, "green"},
		{"pure blue", 0, 0, 255, "blue"},
		{"gold", 255, 215, 0, "yellow"},
		{"indigo", 75, 0, 130, "purple"},
		{"hot pink", 255, 105, 180, "pink"},
		{"saddle brown", 139, 69, 19, "brown"},
		{"means are truncated", 254.9, 0.4, 0.9, "red"},
		{"near prototype still classifies", 250, 10, 10, "red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %q, want %q", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestClassifyGrayscaleShortcut(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    string
	}{
		{"near black", 10, 10, 10, "black"},
		{"boundary 59 is black", 59, 59, 59, "black"},
		{"boundary 60 is gray", 60, 60, 60, "gray"},
		{"mid gray", 128, 128, 128, "gray"},
		{"boundary 200 is gray", 200, 200, 200, "gray"},
		{"boundary 201 is white", 201, 201, 201, "white"},
		{"near white", 250, 250, 250, "white"},
		{"channels within 29 still grayscale", 100, 129, 100, "gray"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %q, want %q", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

// (255,165,0) is a prototype of both yellow and orange; yellow sits earlier
// in the palette and must win the tie.
func TestClassifySharedPrototypeTie(t *testing.T) {
	if got := Classify(255, 165, 0); got != "yellow" {
		t.Errorf("Classify(255,165,0) = %q, want yellow", got)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 11 {
		t.Fatalf("got %d palette colors, want 11", len(names))
	}
	if names[0] != "red" || names[10] != "white" {
		t.Errorf("unexpected palette order: %v", names)
	}
	for _, name := range names {
		if name == Mixed {
			t.Errorf("%q must not be a palette color", Mixed)
		}
	}
}
