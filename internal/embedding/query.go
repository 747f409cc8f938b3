package embedding

import (
	"strings"

	"github.com/hyperjump/shikisai/internal/models"
)

// Token groups that activate pseudo-object slots. Matching is exact per
// token, unlike the color scan which uses substring containment.
var queryObjectWords = []struct {
	words  []string
	object string
}{
	{[]string{"bright", "light", "sunny"}, models.ObjectBrightImage},
	{[]string{"dark", "night", "shadow"}, models.ObjectDarkImage},
	{[]string{"wide", "landscape", "horizontal"}, models.ObjectLandscape},
	{[]string{"tall", "portrait", "vertical"}, models.ObjectPortrait},
}

// Tokenize lowercases a query and splits it on whitespace.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// EncodeQuery encodes free text into the same feature space as analyses.
// Text can only populate the color slots (substring match against each
// token) and the four orientation/brightness object slots (exact token
// match); mood, resolution, and keyword slots stay zero. An empty or
// whitespace-only query encodes to the zero vector.
func EncodeQuery(query string) []float32 {
	vec := make([]float32, Dimensions)
	words := Tokenize(query)
	if len(words) == 0 {
		return vec
	}

	for i, color := range canonicalColors {
		if anyContains(words, color) {
			vec[i] = 1.0
		}
	}

	for _, group := range queryObjectWords {
		if anyInGroup(words, group.words) {
			if slot, ok := objectSlot(group.object); ok {
				vec[slot] = 1.0
			}
		}
	}
	return vec
}

func anyContains(words []string, substr string) bool {
	for _, w := range words {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func anyInGroup(words, group []string) bool {
	for _, w := range words {
		for _, g := range group {
			if w == g {
				return true
			}
		}
	}
	return false
}
