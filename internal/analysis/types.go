// Package analysis asks a multimodal LLM for the worldview analysis of a
// creator's current and ideal work.
package analysis

import (
	"encoding/json"
	"math"
)

// Analysis is the JSON contract returned by the LLM.
type Analysis struct {
	Keywords      []string  `json:"five_keywords"`
	Scores        Scores    `json:"analysis_scores"`
	Current       Worldview `json:"current_worldview"`
	Ideal         Worldview `json:"ideal_worldview"`
	RoadmapAdvice string    `json:"roadmap_advice"`
	RoadmapSteps  []string  `json:"roadmap_steps,omitempty"`
}

// Worldview describes one side of the comparison.
type Worldview struct {
	Catchphrase string `json:"catchphrase"`
	Features    string `json:"features"`
}

// Scores are the five 0-100 ratings of the current work.
type Scores struct {
	Originality int `json:"originality"`
	Technique   int `json:"technique"`
	Passion     int `json:"passion"`
	Market      int `json:"market"`
	Potential   int `json:"potential"`
}

// ScoreKeys lists the score keys in display order.
var ScoreKeys = []string{"originality", "technique", "passion", "market", "potential"}

var scoreLabels = map[string]string{
	"originality": "Originality",
	"technique":   "Technique",
	"passion":     "Passion",
	"market":      "Marketability",
	"potential":   "Potential",
}

// ScoreEntry is one labelled score.
type ScoreEntry struct {
	Key   string
	Label string
	Value int
}

// Entries returns the scores in ScoreKeys order.
func (s Scores) Entries() []ScoreEntry {
	out := make([]ScoreEntry, len(ScoreKeys))
	for i, k := range ScoreKeys {
		out[i] = ScoreEntry{Key: k, Label: scoreLabels[k], Value: *s.field(k)}
	}
	return out
}

func (s *Scores) field(key string) *int {
	switch key {
	case "originality":
		return &s.Originality
	case "technique":
		return &s.Technique
	case "passion":
		return &s.Passion
	case "market":
		return &s.Market
	default:
		return &s.Potential
	}
}

// UnmarshalJSON accepts fractional scores and rounds them. Values are
// clamped to 0..100 before the int conversion so huge numbers cannot wrap.
func (s *Scores) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for _, k := range ScoreKeys {
		*s.field(k) = int(math.Round(max(0, min(m[k], 100))))
	}
	return nil
}

// KeywordCount is the number of keywords every analysis carries.
const KeywordCount = 5

// MaxRoadmapSteps bounds RoadmapSteps.
const MaxRoadmapSteps = 5

// KeywordFiller pads a short keyword list.
const KeywordFiller = "—"
