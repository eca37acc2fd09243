// Package bilingual scores how well an English/Vietnamese text pair lines up.
// The score is an advisory signal for human review, not a translation check.
package bilingual

import (
	"strings"

	"roomcheck/internal/rules"
	"roomcheck/pkg/utils"
)

// Scoring constants.
const (
	ratioWeight         = 0.7
	flagPenalty         = 0.1
	leakageMinRunes     = 4
	leakageMaxShared    = 3
	punctuationMaxDelta = 2
	lowRatio            = 0.5

	// WarnBelow is the score under which a pair is surfaced as a warning.
	WarnBelow = 0.5
)

// Red flag identifiers.
const (
	FlagUntranslated = "untranslated_words"
	FlagPunctuation  = "punctuation_mismatch"
)

// Alignment is the result of checking one pair.
type Alignment struct {
	Suggestion string   `json:"suggestion"`
	Flags      []string `json:"flags,omitempty"`
	Score      float64  `json:"score"`
	Ratio      float64  `json:"ratio"`
}

// Check scores the pair (en, vi). The primary signal is the ratio of the
// shorter to the longer word count; each red flag subtracts 0.1.
func Check(en, vi string) Alignment {
	enWords := rules.CountWords(en)
	viWords := rules.CountWords(vi)

	ratio := wordRatio(enWords, viWords)

	var flags []string
	if sharedWords(en, vi) > leakageMaxShared {
		flags = append(flags, FlagUntranslated)
	}

	if abs(terminalPunctuation(en)-terminalPunctuation(vi)) > punctuationMaxDelta {
		flags = append(flags, FlagPunctuation)
	}

	score := clamp(ratio*ratioWeight+(1-flagPenalty*float64(len(flags))), 0, 1)

	return Alignment{
		Score:      score,
		Ratio:      ratio,
		Flags:      flags,
		Suggestion: suggest(ratio, flags),
	}
}

func wordRatio(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1
	}

	shorter, longer := a, b
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	return float64(shorter) / float64(longer)
}

// sharedWords counts distinct alphabetic words of at least four runes that
// appear verbatim in both texts.
func sharedWords(en, vi string) int {
	viSet := make(map[string]struct{})
	for _, w := range utils.Words(vi) {
		viSet[w] = struct{}{}
	}

	seen := make(map[string]struct{})

	for _, w := range utils.Words(en) {
		if utils.RuneLen(w) < leakageMinRunes || !utils.IsAlphabetic(w) {
			continue
		}

		if _, ok := viSet[w]; ok {
			seen[w] = struct{}{}
		}
	}

	return len(seen)
}

func terminalPunctuation(text string) int {
	return strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
}

func suggest(ratio float64, flags []string) string {
	var parts []string

	if ratio < lowRatio {
		parts = append(parts, "word counts differ a lot; the translation may be incomplete")
	}

	for _, f := range flags {
		switch f {
		case FlagUntranslated:
			parts = append(parts, "several words appear untranslated in both languages")
		case FlagPunctuation:
			parts = append(parts, "sentence counts differ; check for missing or merged sentences")
		}
	}

	if len(parts) == 0 {
		return "alignment looks consistent"
	}

	return strings.Join(parts, "; ")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
