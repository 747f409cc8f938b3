package analyzer

import (
	"github.com/hyperjump/shikisai/internal/models"
)

// Aspect bands for the orientation keywords. These are deliberately
// looser than the object-detection bands, so a mildly wide image gets
// "wide" keywords without a landscape object.
const (
	wideAspectAbove = 1.3
	tallAspectBelow = 0.8
)

// collectKeywords gathers the searchable terms of an analysis: dominant
// colors, object names, mood names, and orientation words. Duplicates
// are dropped, keeping first-contribution order.
func collectKeywords(colors []string, objects []models.DetectedObject, moods *models.Moods, aspect float64) []string {
	keywords := []string{}
	seen := make(map[string]bool)
	add := func(word string) {
		if word == "" || seen[word] {
			return
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	for _, color := range colors {
		add(color)
	}
	for _, obj := range objects {
		add(obj.Name)
	}
	for _, name := range moods.Names() {
		add(name)
	}
	if aspect > wideAspectAbove {
		add("wide")
		add("horizontal")
	} else if aspect < tallAspectBelow {
		add("tall")
		add("vertical")
	}
	return keywords
}
