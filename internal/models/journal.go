package models

import "time"

// JournalEntry records that a file was analyzed, keyed by absolute path.
// Size and ModTime support skip-unchanged checks on re-scan; no analysis
// payload is stored.
type JournalEntry struct {
	Path       string    `json:"path" db:"path"`
	AnalysisID string    `json:"analysis_id" db:"analysis_id"`
	Size       int64     `json:"size" db:"size"`
	ModTime    int64     `json:"mod_time" db:"mod_time"`
	AnalyzedAt time.Time `json:"analyzed_at" db:"analyzed_at"`
}
