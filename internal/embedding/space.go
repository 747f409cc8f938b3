// Package embedding encodes image analyses and free-text queries into a
// shared fixed-width feature space. The space is heuristic, not learned:
// every slot has one fixed meaning, and two vectors are comparable only
// because both encoders agree on the layout below.
package embedding

import (
	"fmt"

	"github.com/hyperjump/shikisai/internal/models"
)

// Dimensions is the width of the feature space.
const Dimensions = 50

// Slot layout: colors 0..10, pseudo-objects 11..17, moods 18..37, hashed
// keywords 38..49.
const (
	objectSlotBase   = 11
	moodSlotBase     = 18
	moodSlotCount    = 20
	keywordSlotBase  = 38
	keywordSlotCount = 12
)

// canonicalColors binds color names to slots 0..10 by position. The tail
// order (black, white, gray) differs from palette order.
var canonicalColors = []string{
	"red", "green", "blue", "yellow", "purple", "orange",
	"pink", "brown", "black", "white", "gray",
}

// objectSlotOrder binds pseudo-object names to slots 11..17 by position.
var objectSlotOrder = []string{
	models.ObjectLandscape,
	models.ObjectPortrait,
	models.ObjectBrightImage,
	models.ObjectDarkImage,
	models.ObjectHighResolution,
	models.ObjectMediumResolution,
	models.ObjectLowResolution,
}

func objectSlot(name string) (int, bool) {
	for i, n := range objectSlotOrder {
		if n == name {
			return objectSlotBase + i, true
		}
	}
	return 0, false
}

// SlotName describes slot i for display and debugging.
func SlotName(i int) string {
	switch {
	case i >= 0 && i < len(canonicalColors):
		return "color:" + canonicalColors[i]
	case i >= objectSlotBase && i < moodSlotBase:
		return "object:" + objectSlotOrder[i-objectSlotBase]
	case i >= moodSlotBase && i < keywordSlotBase:
		return fmt.Sprintf("mood:%d", i-moodSlotBase)
	case i >= keywordSlotBase && i < Dimensions:
		return fmt.Sprintf("keyword:%d", i-keywordSlotBase)
	}
	return fmt.Sprintf("slot:%d", i)
}
