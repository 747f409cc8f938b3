// Package e2e provides end-to-end tests with an image corpus and query cases.
package e2e

import "image/color"

// CorpusImage is one generated test image with the analysis results it must
// produce. RightFill, when set, fills the right half instead of Fill.
type CorpusImage struct {
	ID        string
	Ext       string
	Width     int
	Height    int
	Fill      color.RGBA
	RightFill *color.RGBA

	// ExpectColor is the first dominant color; ExpectObjects the exact
	// detected object names in order; ExpectSlots embedding slots that must
	// be nonzero.
	ExpectColor   string
	ExpectCaption string
	ExpectObjects []string
	ExpectSlots   []int
}

// QueryTestCase defines a query and the image ID(s) allowed at rank one when
// corpus embeddings are ordered by cosine similarity against the encoded
// query.
type QueryTestCase struct {
	Query            string
	ExpectedImageIDs []string
	Description      string
}

// Corpus holds generated images and query test cases for E2E tests.
type Corpus struct {
	Images       []CorpusImage
	TestCases    []QueryTestCase
	TotalImages  int
	TotalQueries int
}

// BuildCorpus returns a corpus covering every palette color, each decodable
// file format, both orientations, all three resolution classes, and a
// two-color split image, with query cases exercising the shared embedding
// space end to end.
func BuildCorpus() *Corpus {
	images := buildImages()
	cases := buildQueryTestCases()
	return &Corpus{
		Images:       images,
		TestCases:    cases,
		TotalImages:  len(images),
		TotalQueries: len(cases),
	}
}

// Fills use each color's first palette prototype so classification is exact,
// and expectations follow from Rec.601 luminance of that fill: for example
// red (255,0,0) has Y = 76.2 and so lands in the dark band, while yellow
// (255,255,0) has Y = 225.9 and lands in the bright band.
func buildImages() []CorpusImage {
	blue := color.RGBA{0, 0, 255, 255}
	return []CorpusImage{
		{
			ID: "solid-red", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{255, 0, 0, 255},
			ExpectColor: "red", ExpectCaption: "A dark red image",
			ExpectObjects: []string{"low_resolution", "dark_image"},
			ExpectSlots:   []int{0, 17, 14},
		},
		{
			ID: "solid-green", Ext: ".gif", Width: 100, Height: 100,
			Fill:        color.RGBA{0, 255, 0, 255},
			ExpectColor: "green", ExpectCaption: "A green image",
			ExpectObjects: []string{"low_resolution"},
			ExpectSlots:   []int{1, 17},
		},
		{
			ID: "solid-blue", Ext: ".jpg", Width: 100, Height: 100,
			Fill:        blue,
			ExpectColor: "blue", ExpectCaption: "A dark blue image",
			ExpectObjects: []string{"low_resolution", "dark_image"},
			ExpectSlots:   []int{2, 17, 14},
		},
		{
			ID: "solid-yellow", Ext: ".bmp", Width: 100, Height: 100,
			Fill:        color.RGBA{255, 255, 0, 255},
			ExpectColor: "yellow", ExpectCaption: "A bright yellow image",
			ExpectObjects: []string{"low_resolution", "bright_image"},
			ExpectSlots:   []int{3, 17, 13},
		},
		{
			ID: "solid-purple", Ext: ".tiff", Width: 100, Height: 100,
			Fill:        color.RGBA{128, 0, 128, 255},
			ExpectColor: "purple", ExpectCaption: "A dark purple image",
			ExpectObjects: []string{"low_resolution", "dark_image"},
			ExpectSlots:   []int{4, 17, 14},
		},
		{
			ID: "solid-orange", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{255, 140, 0, 255},
			ExpectColor: "orange", ExpectCaption: "A orange image",
			ExpectObjects: []string{"low_resolution"},
			ExpectSlots:   []int{5, 17},
		},
		{
			ID: "solid-pink", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{255, 192, 203, 255},
			ExpectColor: "pink", ExpectCaption: "A bright pink image",
			ExpectObjects: []string{"low_resolution", "bright_image"},
			ExpectSlots:   []int{6, 17, 13},
		},
		{
			ID: "solid-brown", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{165, 42, 42, 255},
			ExpectColor: "brown", ExpectCaption: "A dark brown image",
			ExpectObjects: []string{"low_resolution", "dark_image"},
			ExpectSlots:   []int{7, 17, 14},
		},
		{
			ID: "solid-black", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{0, 0, 0, 255},
			ExpectColor: "black", ExpectCaption: "A dark black image",
			ExpectObjects: []string{"low_resolution", "dark_image"},
			ExpectSlots:   []int{8, 17, 14},
		},
		{
			ID: "solid-white", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{255, 255, 255, 255},
			ExpectColor: "white", ExpectCaption: "A bright white image",
			ExpectObjects: []string{"low_resolution", "bright_image"},
			ExpectSlots:   []int{9, 17, 13},
		},
		{
			ID: "solid-gray", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{128, 128, 128, 255},
			ExpectColor: "gray", ExpectCaption: "A gray image",
			ExpectObjects: []string{"low_resolution"},
			ExpectSlots:   []int{10, 17},
		},
		{
			ID: "wide-white", Ext: ".png", Width: 300, Height: 100,
			Fill:        color.RGBA{255, 255, 255, 255},
			ExpectColor: "white", ExpectCaption: "A bright white landscape image",
			ExpectObjects: []string{"landscape", "low_resolution", "bright_image"},
			ExpectSlots:   []int{9, 11, 17, 13},
		},
		{
			ID: "tall-gray", Ext: ".png", Width: 100, Height: 300,
			Fill:        color.RGBA{128, 128, 128, 255},
			ExpectColor: "gray", ExpectCaption: "A gray portrait image",
			ExpectObjects: []string{"portrait", "low_resolution"},
			ExpectSlots:   []int{10, 12, 17},
		},
		{
			// 2.21M pixels, aspect 1.31: high resolution without an
			// orientation object.
			ID: "large-blue", Ext: ".png", Width: 1700, Height: 1300,
			Fill:        blue,
			ExpectColor: "blue", ExpectCaption: "A dark blue image",
			ExpectObjects: []string{"high_resolution", "dark_image"},
			ExpectSlots:   []int{2, 15, 14},
		},
		{
			// 630k pixels: medium resolution.
			ID: "medium-green", Ext: ".png", Width: 900, Height: 700,
			Fill:        color.RGBA{0, 255, 0, 255},
			ExpectColor: "green", ExpectCaption: "A green image",
			ExpectObjects: []string{"medium_resolution"},
			ExpectSlots:   []int{1, 16},
		},
		{
			// Half red, half blue: the whole-image mean reads as purple, the
			// quadrants contribute red and blue.
			ID: "halves-red-blue", Ext: ".png", Width: 100, Height: 100,
			Fill:        color.RGBA{255, 0, 0, 255},
			RightFill:   &blue,
			ExpectColor: "purple", ExpectCaption: "A dark purple and red image",
			ExpectObjects: []string{"low_resolution", "dark_image"},
			ExpectSlots:   []int{4, 0, 2, 17, 14},
		},
	}
}

// Query words route to fixed slots, so the image(s) carrying that slot are
// the only ones with nonzero similarity and one of them must rank first.
func buildQueryTestCases() []QueryTestCase {
	return []QueryTestCase{
		{
			Query:            "red",
			ExpectedImageIDs: []string{"solid-red", "halves-red-blue"},
			Description:      "color name ranks red images first",
		},
		{
			Query:            "blue",
			ExpectedImageIDs: []string{"solid-blue", "large-blue", "halves-red-blue"},
			Description:      "color name ranks blue images first",
		},
		{
			Query:            "gray",
			ExpectedImageIDs: []string{"solid-gray", "tall-gray"},
			Description:      "grayscale bucket is searchable like any color",
		},
		{
			Query:            "bright sunshine",
			ExpectedImageIDs: []string{"solid-yellow", "solid-pink", "solid-white", "wide-white"},
			Description:      "brightness word ranks bright images first",
		},
		{
			Query:            "dark night photo",
			ExpectedImageIDs: []string{"solid-red", "solid-blue", "solid-purple", "solid-brown", "solid-black", "large-blue", "halves-red-blue"},
			Description:      "darkness words rank dark images first",
		},
		{
			Query:            "wide landscape",
			ExpectedImageIDs: []string{"wide-white"},
			Description:      "orientation words find the landscape image",
		},
		{
			Query:            "tall portrait shot",
			ExpectedImageIDs: []string{"tall-gray"},
			Description:      "orientation words find the portrait image",
		},
	}
}
