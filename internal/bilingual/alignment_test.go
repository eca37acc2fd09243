package bilingual

import (
	"math"
	"reflect"
	"testing"
)

func TestCheck_EqualCountsNoFlags(t *testing.T) {
	a := Check("Breathe in slowly now.", "Hít vào thật chậm.")

	if a.Score < 0.7 {
		t.Errorf("Score = %v, want >= 0.7", a.Score)
	}

	if len(a.Flags) != 0 {
		t.Errorf("Flags = %v, want none", a.Flags)
	}

	if a.Suggestion != "alignment looks consistent" {
		t.Errorf("Suggestion = %q", a.Suggestion)
	}
}

func TestCheck_Formula(t *testing.T) {
	tests := []struct {
		name      string
		en, vi    string
		wantScore float64
		wantFlags []string
	}{
		{
			name:      "both empty",
			en:        "",
			vi:        "",
			wantScore: 1,
		},
		{
			name:      "one side empty",
			en:        "Hello there friend",
			vi:        "",
			wantScore: 1,
			wantFlags: nil,
		},
		{
			name:      "untranslated leakage",
			en:        "Practice mindful breathing during stressful meetings",
			vi:        "Practice mindful breathing during stressful meetings",
			wantScore: 1,
			wantFlags: []string{FlagUntranslated},
		},
		{
			name:      "both red flags",
			en:        "Rest. Sleep. Wake. Walk. Breathe deeply every single morning",
			vi:        "Breathe deeply every single morning",
			wantScore: clamp(5.0/9.0*0.7+0.8, 0, 1),
			wantFlags: []string{FlagUntranslated, FlagPunctuation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Check(tt.en, tt.vi)

			if math.Abs(a.Score-tt.wantScore) > 1e-9 {
				t.Errorf("Score = %v, want %v", a.Score, tt.wantScore)
			}

			if !reflect.DeepEqual(a.Flags, tt.wantFlags) {
				t.Errorf("Flags = %v, want %v", a.Flags, tt.wantFlags)
			}
		})
	}
}

func TestCheck_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"a", ""},
		{"One two three four five six seven eight nine ten.", "Một."},
		{"!!!!!!!!", "words without punctuation at all here"},
	}

	for _, p := range pairs {
		a := Check(p[0], p[1])
		if a.Score < 0 || a.Score > 1 {
			t.Errorf("Check(%q, %q).Score = %v, out of [0,1]", p[0], p[1], a.Score)
		}
	}
}

func TestCheck_RatioSuggestion(t *testing.T) {
	a := Check("One two three four five six seven eight nine ten.", "Một hai.")

	if a.Ratio != 0.2 {
		t.Errorf("Ratio = %v, want 0.2", a.Ratio)
	}

	if a.Suggestion == "alignment looks consistent" {
		t.Error("expected an incomplete-translation suggestion")
	}
}
