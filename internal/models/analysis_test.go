package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewAnalysisEncodesEmptyCollections(t *testing.T) {
	data, err := json.Marshal(NewAnalysis())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if strings.Contains(s, "null") {
		t.Errorf("analysis JSON contains null: %s", s)
	}
	for _, field := range []string{`"objects":[]`, `"text":[]`, `"relationships":[]`, `"emotions":{}`, `"embedding":[]`} {
		if !strings.Contains(s, field) {
			t.Errorf("missing %s in %s", field, s)
		}
	}
}

func TestAnalysisFieldOrder(t *testing.T) {
	data, err := json.Marshal(NewAnalysis())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	fields := []string{"objects", "text", "caption", "emotions", "colors", "brightness", "search_keywords", "relationships", "semantic_concepts", "embedding"}
	last := -1
	for _, f := range fields {
		idx := strings.Index(s, `"`+f+`"`)
		if idx < 0 {
			t.Fatalf("field %q missing from %s", f, s)
		}
		if idx < last {
			t.Errorf("field %q out of order", f)
		}
		last = idx
	}
}

func TestFileAnalysisRoundTrip(t *testing.T) {
	a := NewAnalysis()
	a.Caption = "A bright blue image"
	a.Colors = []string{"blue"}
	a.Emotions.Set("calm", 0.8)

	fa := &FileAnalysis{
		AnalysisID: "7b0c0b2a-0000-0000-0000-000000000000",
		SourcePath: "/photos/sky.png",
		Analysis:   a,
	}
	data, err := json.Marshal(fa)
	if err != nil {
		t.Fatal(err)
	}
	var decoded FileAnalysis
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.SourcePath != fa.SourcePath {
		t.Errorf("source_path = %q", decoded.SourcePath)
	}
	if decoded.Analysis == nil || decoded.Analysis.Caption != a.Caption {
		t.Errorf("analysis did not survive round trip: %+v", decoded.Analysis)
	}
	if score, ok := decoded.Analysis.Emotions.Get("calm"); !ok || score != 0.8 {
		t.Errorf("emotions lost in round trip")
	}
}
