package embedding

import "github.com/hyperjump/shikisai/internal/models"

// EncodeAnalysis encodes a completed analysis into the feature space:
// detected colors set their slots to 1.0, pseudo-objects carry their
// confidence, moods carry their scores in insertion order (first 20), and
// the first 12 keywords land in hashed slots. Any failure yields the
// all-zero vector rather than an error.
func EncodeAnalysis(a *models.Analysis) (vec []float32) {
	vec = make([]float32, Dimensions)
	defer func() {
		if recover() != nil {
			vec = make([]float32, Dimensions)
		}
	}()
	if a == nil {
		return vec
	}

	for i, color := range canonicalColors {
		if containsString(a.Colors, color) {
			vec[i] = 1.0
		}
	}

	for _, obj := range a.Objects {
		if slot, ok := objectSlot(obj.Name); ok {
			vec[slot] = float32(obj.Confidence)
		}
	}

	if a.Emotions != nil {
		for i, item := range a.Emotions.Items() {
			if i >= moodSlotCount {
				break
			}
			vec[moodSlotBase+i] = float32(item.Score)
		}
	}

	for i, word := range a.SearchKeywords {
		if i >= keywordSlotCount {
			break
		}
		vec[keywordSlotBase+i] = keywordSlotValue(word)
	}
	return vec
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
