// Package cli renders analyses, query embeddings, and status for the
// command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/shikisai/internal/embedding"
	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/pkg/utils"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is a one-line-per-image summary.
	OutputCompact OutputFormat = "compact"
)

// ParseOutputFormat validates a -output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON, OutputCompact:
		return OutputFormat(s), nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, or compact)", s)
	}
}

// Status is the service status as shown by the status command, decoded
// from the HTTP API or assembled locally from the journal.
type Status struct {
	AnalyzedFiles      int64    `json:"analyzed_files"`
	WatchedDirectories []string `json:"watched_directories"`
	Workers            int      `json:"workers"`
	DiskUsageBytes     int64    `json:"disk_usage_bytes,omitempty"`
	Source             string   `json:"source,omitempty"`
}

// WriteAnalysis writes one image analysis to w. path labels the output in
// text and compact modes and may be empty.
func WriteAnalysis(w io.Writer, path string, analysis *models.Analysis, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	case OutputCompact:
		writeAnalysisCompact(w, path, analysis)
		return nil
	default:
		writeAnalysisText(w, path, analysis)
		return nil
	}
}

func writeAnalysisCompact(w io.Writer, path string, analysis *models.Analysis) {
	label := path
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(w, "%s  %s  colors=%s brightness=%.1f\n",
		utils.Truncate(label, 60), analysis.Caption,
		strings.Join(analysis.Colors, ","), analysis.Brightness)
}

func writeAnalysisText(w io.Writer, path string, analysis *models.Analysis) {
	if path != "" {
		fmt.Fprintf(w, "\n%s\n", path)
	}
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Caption:    %s\n", analysis.Caption)
	fmt.Fprintf(w, "Colors:     %s\n", strings.Join(analysis.Colors, ", "))
	fmt.Fprintf(w, "Brightness: %.1f\n", analysis.Brightness)

	if len(analysis.Objects) > 0 {
		fmt.Fprintln(w, "Objects:")
		for _, obj := range analysis.Objects {
			fmt.Fprintf(w, "  %-18s %.2f\n", obj.Name, obj.Confidence)
		}
	}
	if analysis.Emotions != nil && analysis.Emotions.Len() > 0 {
		fmt.Fprintln(w, "Moods:")
		for _, item := range analysis.Emotions.Items() {
			fmt.Fprintf(w, "  %-18s %.2f\n", item.Name, item.Score)
		}
	}
	if len(analysis.SearchKeywords) > 0 {
		fmt.Fprintf(w, "Keywords:   %s\n", strings.Join(analysis.SearchKeywords, ", "))
	}
	if len(analysis.SemanticConcepts) > 0 {
		fmt.Fprintln(w, "Concepts:")
		for _, concept := range analysis.SemanticConcepts {
			fmt.Fprintf(w, "  %-24s %.2f (%s)\n", concept.Concept, concept.Confidence, concept.Category)
		}
	}
	fmt.Fprintln(w)
}

// WriteQueryEmbedding writes an encoded query to w. Text mode lists only
// the nonzero slots by name; JSON mode emits the full vector.
func WriteQueryEmbedding(w io.Writer, result *models.QueryEmbedding, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "Query: %q\n", result.Query)
	nonzero := 0
	for i, v := range result.Embedding {
		if v == 0 {
			continue
		}
		fmt.Fprintf(w, "  [%2d] %-24s %.2f\n", i, embedding.SlotName(i), v)
		nonzero++
	}
	if nonzero == 0 {
		fmt.Fprintln(w, "  (zero vector: no recognized terms)")
	}
	return nil
}

// WriteStatus writes the service status to w.
func WriteStatus(w io.Writer, status *Status, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	if status.Source != "" {
		fmt.Fprintf(w, "Source:              %s\n", status.Source)
	}
	fmt.Fprintf(w, "Analyzed files:      %d\n", status.AnalyzedFiles)
	fmt.Fprintf(w, "Workers:             %d\n", status.Workers)
	if status.DiskUsageBytes > 0 {
		fmt.Fprintf(w, "Disk usage:          %s\n", FormatBytes(status.DiskUsageBytes))
	}
	if len(status.WatchedDirectories) > 0 {
		fmt.Fprintln(w, "Watched directories:")
		for _, dir := range status.WatchedDirectories {
			fmt.Fprintf(w, "  %s\n", dir)
		}
	} else {
		fmt.Fprintln(w, "Watched directories: none")
	}
	return nil
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
