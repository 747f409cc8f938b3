package analyzer

import (
	"sort"

	"go.uber.org/zap"

	"github.com/hyperjump/shikisai/internal/palette"
	"github.com/hyperjump/shikisai/internal/raster"
)

// An analysis carries at most three dominant colors.
const maxDominantColors = 3

// dominantColors classifies the whole-image mean and the five sampled
// regions, then merges them: the overall color first, followed by the
// most frequent region colors not already present. Regions that cannot
// be measured are skipped; if the image itself cannot be measured the
// result is exactly ["mixed"].
func (a *Analyzer) dominantColors(im *raster.Image) []string {
	r, g, b, err := im.MeanRGB(im.Bounds())
	if err != nil {
		if a.logger != nil {
			a.logger.Debug("color aggregation failed", zap.Error(err))
		}
		return []string{palette.Mixed}
	}
	overall := palette.Classify(r, g, b)

	var regionColors []string
	for i, region := range im.Regions() {
		r, g, b, err := im.MeanRGB(region)
		if err != nil {
			if a.logger != nil {
				a.logger.Debug("skipping degenerate region", zap.Int("region", i), zap.Error(err))
			}
			continue
		}
		regionColors = append(regionColors, palette.Classify(r, g, b))
	}

	// Tally region colors and order by count, first appearance breaking
	// ties.
	counts := make(map[string]int)
	var ranked []string
	for _, color := range regionColors {
		if counts[color] == 0 {
			ranked = append(ranked, color)
		}
		counts[color]++
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > 4 {
		ranked = ranked[:4]
	}

	result := []string{overall}
	for _, color := range ranked {
		if !containsString(result, color) {
			result = append(result, color)
		}
	}
	if len(result) > maxDominantColors {
		result = result[:maxDominantColors]
	}
	return result
}
