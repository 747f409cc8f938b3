package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MoodScore is one mood name with its score.
type MoodScore struct {
	Name  string
	Score float64
}

// Moods is a mood-to-score mapping that preserves first-insertion order.
// Downstream consumers (concepts, embedding slots, JSON output) depend on
// that order, so a plain map would not do.
type Moods struct {
	names  []string
	scores map[string]float64
}

// NewMoods returns an empty mood mapping.
func NewMoods() *Moods {
	return &Moods{scores: make(map[string]float64)}
}

// Set stores score under name. A mood keeps its original position when
// overwritten.
func (m *Moods) Set(name string, score float64) {
	if _, ok := m.scores[name]; !ok {
		m.names = append(m.names, name)
	}
	m.scores[name] = score
}

// Add increases name's score by delta, inserting it at delta if absent.
func (m *Moods) Add(name string, delta float64) {
	cur := m.scores[name]
	m.Set(name, cur+delta)
}

// Get returns the score for name and whether it is present.
func (m *Moods) Get(name string) (float64, bool) {
	score, ok := m.scores[name]
	return score, ok
}

// Len returns the number of moods.
func (m *Moods) Len() int {
	return len(m.names)
}

// Names returns the mood names in insertion order.
func (m *Moods) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Items returns name/score pairs in insertion order.
func (m *Moods) Items() []MoodScore {
	out := make([]MoodScore, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, MoodScore{Name: name, Score: m.scores[name]})
	}
	return out
}

// MarshalJSON encodes the moods as a JSON object whose keys appear in
// insertion order.
func (m *Moods) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.scores[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording keys in document order so a
// round-trip preserves it.
func (m *Moods) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("moods: expected JSON object, got %v", tok)
	}
	m.names = nil
	m.scores = make(map[string]float64)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("moods: expected string key, got %v", keyTok)
		}
		var score float64
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("moods: score for %q: %w", name, err)
		}
		m.Set(name, score)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
