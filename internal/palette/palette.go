// Package palette classifies RGB values against a fixed palette of named
// color prototypes. Classification is deterministic: truncate to integers,
// shortcut near-equal channels to a grayscale bucket, otherwise take the
// nearest prototype by Euclidean distance with ties kept by palette order.
package palette

import "math"

// Mixed is the fallback color name used when an image yields no measurable
// region at all.
const Mixed = "mixed"

type entry struct {
	name   string
	protos [][3]int
}

// Prototype order matters twice: earlier prototypes win exact distance ties,
// and (255,165,0) is listed under both yellow and orange, so yellow claims it.
var palette = []entry{
	{"red", [][3]int{{255, 0, 0}, {139, 0, 0}, {220, 20, 60}}},
	{"green", [][3]int{{0, 128, 0}, {0, 255, 0}, {34, 139, 34}}},
	{"blue", [][3]int{{0, 0, 255}, {0, 0, 139}, {30, 144, 255}}},
	{"yellow", [][3]int{{255, 255, 0}, {255, 215, 0}, {255, 165, 0}}},
	{"purple", [][3]int{{128, 0, 128}, {75, 0, 130}, {138, 43, 226}}},
	{"orange", [][3]int{{255, 165, 0}, {255, 140, 0}, {255, 69, 0}}},
	{"pink", [][3]int{{255, 192, 203}, {255, 20, 147}, {255, 105, 180}}},
	{"brown", [][3]int{{165, 42, 42}, {139, 69, 19}, {160, 82, 45}}},
	{"gray", [][3]int{{128, 128, 128}, {169, 169, 169}, {105, 105, 105}}},
	{"black", [][3]int{{0, 0, 0}, {25, 25, 25}, {47, 79, 79}}},
	{"white", [][3]int{{255, 255, 255}, {248, 248, 255}, {245, 245, 245}}},
}

// Classify maps a mean RGB value to a named color. Channel means are
// truncated to integers before comparison.
func Classify(r, g, b float64) string {
	ri, gi, bi := int(r), int(g), int(b)

	// Channels within 30 of each other read as grayscale, not as a hue.
	if absInt(ri-gi) < 30 && absInt(gi-bi) < 30 && absInt(ri-bi) < 30 {
		switch {
		case ri < 60:
			return "black"
		case ri > 200:
			return "white"
		default:
			return "gray"
		}
	}

	best := ""
	bestDist := math.MaxFloat64
	for _, e := range palette {
		for _, p := range e.protos {
			if d := distance(ri, gi, bi, p); d < bestDist {
				bestDist = d
				best = e.name
			}
		}
	}
	return best
}

// Names returns the palette's color names in palette order.
func Names() []string {
	out := make([]string, 0, len(palette))
	for _, e := range palette {
		out = append(out, e.name)
	}
	return out
}

func distance(r, g, b int, p [3]int) float64 {
	dr := float64(r - p[0])
	dg := float64(g - p[1])
	db := float64(b - p[2])
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
