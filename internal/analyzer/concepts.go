package analyzer

import (
	"github.com/hyperjump/shikisai/internal/models"
)

// Moods must score above this to surface as a concept.
const conceptMoodFloor = 0.5

// semanticConcepts derives searchable concepts from an analysis: one
// "<color> tones" visual concept per dominant color and one emotion
// concept per sufficiently strong mood, in mood order.
func semanticConcepts(colors []string, moods *models.Moods) []models.SemanticConcept {
	concepts := []models.SemanticConcept{}

	tones := colors
	if len(tones) > maxDominantColors {
		tones = tones[:maxDominantColors]
	}
	for _, color := range tones {
		concepts = append(concepts, models.SemanticConcept{
			Concept:    color + " tones",
			Confidence: 0.7,
			Category:   "visual",
		})
	}

	for _, item := range moods.Items() {
		if item.Score > conceptMoodFloor {
			concepts = append(concepts, models.SemanticConcept{
				Concept:    item.Name,
				Confidence: item.Score,
				Category:   "emotion",
			})
		}
	}
	return concepts
}
