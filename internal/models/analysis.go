// Package models defines core data structures for analyses, queries, and journal entries.
package models

import "time"

// Names of the pseudo-objects the detector can emit. The embedding encoder
// assigns each of these a fixed slot, so the strings are part of the contract.
const (
	ObjectLandscape        = "landscape"
	ObjectPortrait         = "portrait"
	ObjectBrightImage      = "bright_image"
	ObjectDarkImage        = "dark_image"
	ObjectHighResolution   = "high_resolution"
	ObjectMediumResolution = "medium_resolution"
	ObjectLowResolution    = "low_resolution"
)

// BoundingBox is a pixel-space rectangle. Pseudo-objects always span the
// whole image, so x and y are zero in practice.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DetectedObject is a heuristic detection derived from image geometry and
// brightness, not from a learned model.
type DetectedObject struct {
	Name        string      `json:"name"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// SemanticConcept is a searchable concept with a confidence and a category
// ("visual" for color-derived concepts, "emotion" for mood-derived ones).
type SemanticConcept struct {
	Concept    string  `json:"concept"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
}

// Analysis is the complete result of analyzing one image. Field presence is
// fixed: list fields are always present (possibly empty), Text and
// Relationships are always empty, and Embedding always has 50 entries.
type Analysis struct {
	Objects          []DetectedObject  `json:"objects"`
	Text             []string          `json:"text"`
	Caption          string            `json:"caption"`
	Emotions         *Moods            `json:"emotions"`
	Colors           []string          `json:"colors"`
	Brightness       float64           `json:"brightness"`
	SearchKeywords   []string          `json:"search_keywords"`
	Relationships    []string          `json:"relationships"`
	SemanticConcepts []SemanticConcept `json:"semantic_concepts"`
	Embedding        []float32         `json:"embedding"`
}

// NewAnalysis returns an Analysis with all collection fields initialized so
// they encode as empty JSON arrays rather than null.
func NewAnalysis() *Analysis {
	return &Analysis{
		Objects:          []DetectedObject{},
		Text:             []string{},
		Emotions:         NewMoods(),
		Colors:           []string{},
		SearchKeywords:   []string{},
		Relationships:    []string{},
		SemanticConcepts: []SemanticConcept{},
		Embedding:        []float32{},
	}
}

// FileAnalysis wraps an Analysis with provenance, as written to sidecar files.
type FileAnalysis struct {
	AnalysisID string    `json:"analysis_id"`
	SourcePath string    `json:"source_path"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Analysis   *Analysis `json:"analysis"`
}
