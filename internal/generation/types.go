// Package generation talks to the external text-generation service that
// turns a period's journal entries into a structured insight.
package generation

// PeriodInfo identifies the period an insight covers.
type PeriodInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Key   string `json:"key"`
}

// MoodTrend summarizes how the user's mood moved over the period.
type MoodTrend struct {
	Summary string `json:"summary"`
}

// Theme is a recurring topic surfaced from entry tags.
type Theme struct {
	Tag  string `json:"tag"`
	Note string `json:"note"`
}

// Moment is a single notable entry called out in the insight.
type Moment struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// Meta carries generation bookkeeping.
type Meta struct {
	TokensUsed int `json:"tokens_used"`
}

// StructuredInsight is the JSON payload persisted for every insight.
// The generation service is expected to return this shape; responses that
// do not validate are downgraded to a plain-text fallback (see Result).
type StructuredInsight struct {
	Period         PeriodInfo `json:"period"`
	Language       string     `json:"language"`
	Overview       string     `json:"overview"`
	MoodTrend      MoodTrend  `json:"mood_trend"`
	Themes         []Theme    `json:"themes"`
	NotableMoments []Moment   `json:"notable_moments"`
	Suggestions    []string   `json:"suggestions"`
	Meta           *Meta      `json:"meta,omitempty"`
}

// NewFallbackInsight wraps raw generated text as a minimal StructuredInsight.
// The text becomes the overview; the structured sections stay empty rather
// than nil so the JSON always carries arrays.
func NewFallbackInsight(p PeriodInfo, language, raw string) StructuredInsight {
	return StructuredInsight{
		Period:         p,
		Language:       language,
		Overview:       raw,
		Themes:         []Theme{},
		NotableMoments: []Moment{},
		Suggestions:    []string{},
	}
}
