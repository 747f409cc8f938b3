// Package emotion maps detected colors and global brightness to weighted
// mood scores.
package emotion

import (
	"github.com/hyperjump/shikisai/internal/models"
	"github.com/hyperjump/shikisai/pkg/utils"
)

type moodWeight struct {
	name  string
	score float64
}

// Per-color mood tables. Entry order fixes the insertion order of the
// result, which downstream consumers rely on.
var colorMoods = map[string][]moodWeight{
	"red":    {{"energetic", 0.8}, {"passionate", 0.7}, {"exciting", 0.6}},
	"blue":   {{"calm", 0.8}, {"peaceful", 0.7}, {"cool", 0.6}},
	"green":  {{"natural", 0.8}, {"peaceful", 0.6}, {"fresh", 0.7}},
	"yellow": {{"happy", 0.8}, {"cheerful", 0.7}, {"bright", 0.6}},
	"purple": {{"mysterious", 0.7}, {"elegant", 0.6}, {"creative", 0.5}},
	"orange": {{"warm", 0.8}, {"energetic", 0.6}, {"friendly", 0.7}},
	"pink":   {{"romantic", 0.8}, {"soft", 0.7}, {"feminine", 0.6}},
	"brown":  {{"earthy", 0.8}, {"natural", 0.6}, {"warm", 0.5}},
	"black":  {{"dramatic", 0.8}, {"mysterious", 0.7}, {"elegant", 0.6}},
	"white":  {{"clean", 0.8}, {"pure", 0.7}, {"minimal", 0.6}},
	"gray":   {{"neutral", 0.8}, {"calm", 0.5}, {"balanced", 0.6}},
}

// Brightness bands for the mood adjustment. The caption composer uses its
// own, different cutoffs.
const (
	brightAbove = 180.0
	darkBelow   = 80.0
)

// Map merges the mood tables of the detected colors, keeping the maximum
// score per mood, then applies one brightness adjustment and clamps every
// score to at most 1.0. Colors without a table ("mixed") contribute nothing.
// The result is never empty: one of bright, moody, or balanced always fires.
func Map(colors []string, brightness float64) *models.Moods {
	moods := models.NewMoods()
	for _, color := range colors {
		for _, mw := range colorMoods[color] {
			if cur, ok := moods.Get(mw.name); !ok || mw.score > cur {
				moods.Set(mw.name, mw.score)
			}
		}
	}

	switch {
	case brightness > brightAbove:
		moods.Set("bright", 0.8)
		moods.Add("cheerful", 0.3)
	case brightness < darkBelow:
		moods.Set("moody", 0.7)
		moods.Add("dramatic", 0.3)
	default:
		moods.Set("balanced", 0.6)
	}

	for _, item := range moods.Items() {
		moods.Set(item.Name, utils.Clamp01(item.Score))
	}
	return moods
}
