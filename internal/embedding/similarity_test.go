package embedding

import (
	"math"
	"testing"

	"github.com/hyperjump/shikisai/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical vectors", []float32{1, 0, 1}, []float32{1, 0, 1}, 1.0},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

// A query mentioning an image's dominant color must land closer to that
// image than a query mentioning a different color.
func TestQueryImageComparability(t *testing.T) {
	a := models.NewAnalysis()
	a.Colors = []string{"blue"}
	a.Emotions.Set("calm", 0.8)
	a.SearchKeywords = []string{"blue", "calm"}
	imageVec := EncodeAnalysis(a)

	match := CosineSimilarity(imageVec, EncodeQuery("blue water"))
	miss := CosineSimilarity(imageVec, EncodeQuery("red fire"))
	if match <= miss {
		t.Errorf("blue query scored %v, red query %v against a blue image", match, miss)
	}
	if match <= 0 {
		t.Errorf("matching query has non-positive similarity %v", match)
	}
}
