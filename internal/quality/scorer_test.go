package quality

import (
	"math"
	"testing"

	"roomcheck/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeasure(t *testing.T) {
	m, ok := NewScorer().Measure("Rest well. Feel calm.")
	if !ok {
		t.Fatal("Measure reported no words")
	}

	if !almostEqual(m.Clarity, 96) {
		t.Errorf("Clarity = %v, want 96", m.Clarity)
	}

	if !almostEqual(m.Density, 80) {
		t.Errorf("Density = %v, want 80", m.Density)
	}

	if !almostEqual(m.Sentiment, 1) {
		t.Errorf("Sentiment = %v, want 1", m.Sentiment)
	}

	if !almostEqual(m.Repetition, 0) {
		t.Errorf("Repetition = %v, want 0", m.Repetition)
	}
}

func TestMeasure_Metrics(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		metric func(Metrics) float64
		want   float64
	}{
		{"repetition", "calm calm calm calm", func(m Metrics) float64 { return m.Repetition }, 75},
		{"balanced sentiment", "sad but calm", func(m Metrics) float64 { return m.Sentiment }, 0},
		{"no sentiment words", "the table is wooden", func(m Metrics) float64 { return m.Sentiment }, 0},
		{"negative sentiment", "I feel lonely and tired", func(m Metrics) float64 { return m.Sentiment }, -1},
		{"vietnamese phrase", "Tôi cảm thấy bình an", func(m Metrics) float64 { return m.Sentiment }, 1},
		{"no terminator counts one sentence", "one two three four five", func(m Metrics) float64 { return m.Clarity }, 90},
		{"hyphenated words count once", "Practice self-care today.", func(m Metrics) float64 { return m.Clarity }, 94},
		{"contractions count once", "Don't rush.", func(m Metrics) float64 { return m.Clarity }, 96},
		{"hyphen keeps word length", "self-care", func(m Metrics) float64 { return m.Density }, 70},
		{"clarity floors at zero", longSentence(60), func(m Metrics) float64 { return m.Clarity }, 0},
	}

	s := NewScorer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := s.Measure(tt.text)
			if !ok {
				t.Fatal("Measure reported no words")
			}

			if got := tt.metric(m); !almostEqual(got, tt.want) {
				t.Errorf("metric = %v, want %v", got, tt.want)
			}
		})
	}
}

func longSentence(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "word "
	}

	return s + "."
}

func TestScore_Overall(t *testing.T) {
	room := &models.Room{
		Entries: []models.Entry{{Copy: models.Bilingual{En: "Rest well. Feel calm."}}},
	}

	q := NewScorer().Score(room)

	if q.Overall != 95 {
		t.Errorf("Overall = %d, want 95", q.Overall)
	}

	if q.FieldsScored != 1 {
		t.Errorf("FieldsScored = %d, want 1", q.FieldsScored)
	}
}

func TestScore_AveragesFields(t *testing.T) {
	room := &models.Room{
		Content: &models.Bilingual{En: "calm calm calm calm", Vi: "Rest well. Feel calm."},
	}

	q := NewScorer().Score(room)

	if !almostEqual(q.Repetition, 37.5) {
		t.Errorf("Repetition = %v, want 37.5", q.Repetition)
	}

	if q.FieldsScored != 2 {
		t.Errorf("FieldsScored = %d, want 2", q.FieldsScored)
	}
}

func TestScore_NoText(t *testing.T) {
	rooms := []*models.Room{
		nil,
		{},
		{Content: &models.Bilingual{En: "  ", Vi: "..."}, Entries: []models.Entry{{}}},
	}

	for i, r := range rooms {
		if q := NewScorer().Score(r); q != (models.QualityScore{}) {
			t.Errorf("room %d: Score = %+v, want zero", i, q)
		}
	}
}

func TestOverall_Bounds(t *testing.T) {
	cases := []Metrics{
		{},
		{Clarity: 100, Density: 100, Sentiment: 1, Repetition: 0},
		{Clarity: 0, Density: 0, Sentiment: -1, Repetition: 100},
		{Clarity: 55.5, Density: 12.3, Sentiment: 0.25, Repetition: 33.3},
	}

	for _, m := range cases {
		got := Overall(m)
		if got < 0 || got > 100 {
			t.Errorf("Overall(%+v) = %d, out of [0,100]", m, got)
		}
	}

	if got := Overall(Metrics{Clarity: 100, Density: 100, Sentiment: 1}); got != 100 {
		t.Errorf("Overall(best) = %d, want 100", got)
	}
}
