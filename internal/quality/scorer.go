// Package quality computes heuristic writing-quality metrics for room text.
package quality

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"roomcheck/internal/models"
	"roomcheck/pkg/utils"
)

// Metrics holds the raw metrics for a single text field.
type Metrics struct {
	Clarity    float64
	Density    float64
	Sentiment  float64
	Repetition float64
}

// Scorer scores bilingual room text.
type Scorer struct {
	sentenceEnd *regexp.Regexp
	positive    [][]string
	negative    [][]string
}

// NewScorer creates a scorer over the built-in sentiment lexicons.
func NewScorer() *Scorer {
	return NewScorerWithLexicons(positiveLexicon, negativeLexicon)
}

// NewScorerWithLexicons creates a scorer over caller-supplied lexicons.
func NewScorerWithLexicons(positive, negative []string) *Scorer {
	return &Scorer{
		sentenceEnd: regexp.MustCompile(`[.!?]+`),
		positive:    tokenizeLexicon(positive),
		negative:    tokenizeLexicon(negative),
	}
}

func tokenizeLexicon(entries []string) [][]string {
	out := make([][]string, 0, len(entries))

	for _, e := range entries {
		if words := utils.Words(e); len(words) > 0 {
			out = append(out, words)
		}
	}

	return out
}

// Score averages the metrics of every non-empty intro and entry body and
// derives the composite score. A room with no scoreable text scores zero.
func (s *Scorer) Score(room *models.Room) models.QualityScore {
	if room == nil {
		return models.QualityScore{}
	}

	var (
		sum Metrics
		n   int
	)

	for _, text := range scoreableText(room) {
		m, ok := s.Measure(text)
		if !ok {
			continue
		}

		sum.Clarity += m.Clarity
		sum.Density += m.Density
		sum.Sentiment += m.Sentiment
		sum.Repetition += m.Repetition
		n++
	}

	if n == 0 {
		return models.QualityScore{}
	}

	avg := Metrics{
		Clarity:    sum.Clarity / float64(n),
		Density:    sum.Density / float64(n),
		Sentiment:  sum.Sentiment / float64(n),
		Repetition: sum.Repetition / float64(n),
	}

	return models.QualityScore{
		Clarity:      avg.Clarity,
		Density:      avg.Density,
		Sentiment:    avg.Sentiment,
		Repetition:   avg.Repetition,
		Overall:      Overall(avg),
		FieldsScored: n,
	}
}

// Overall combines averaged metrics into an integer in [0, 100].
func Overall(m Metrics) int {
	v := m.Clarity*0.3 + m.Density*0.2 + (m.Sentiment+1)*50*0.3 + (100-m.Repetition)*0.2

	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// Measure computes the metrics for one text. ok is false when the text has no words.
func (s *Scorer) Measure(text string) (Metrics, bool) {
	tokens := utils.Words(text)
	if len(tokens) == 0 {
		return Metrics{}, false
	}

	// clarity and density use whitespace words; lexicon matching uses tokens
	words := fieldWords(text)

	return Metrics{
		Clarity:    s.clarity(text, len(words)),
		Density:    density(words),
		Sentiment:  s.sentiment(tokens),
		Repetition: repetition(tokens),
	}, true
}

func (s *Scorer) clarity(text string, words int) float64 {
	sentences := 0

	for _, part := range s.sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(utils.StripPunctuation(part)) != "" {
			sentences++
		}
	}

	if sentences == 0 {
		sentences = 1
	}

	return math.Max(0, 100-2*float64(words)/float64(sentences))
}

func density(words []string) float64 {
	if len(words) == 0 {
		return 0
	}

	runes := 0
	for _, w := range words {
		runes += utils.RuneLen(w)
	}

	avg := float64(runes) / float64(len(words))

	return math.Max(0, 100-10*math.Abs(avg-6))
}

// fieldWords splits on whitespace and trims leading and trailing punctuation
// from each word. Punctuation-only fields are dropped.
func fieldWords(text string) []string {
	var words []string

	for _, f := range strings.Fields(text) {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}

	return words
}

func (s *Scorer) sentiment(tokens []string) float64 {
	pos := countPhrases(tokens, s.positive)
	neg := countPhrases(tokens, s.negative)

	if pos+neg == 0 {
		return 0
	}

	return float64(pos-neg) / float64(pos+neg)
}

// countPhrases counts every occurrence of every phrase as a contiguous token run.
func countPhrases(tokens []string, phrases [][]string) int {
	hits := 0

	for _, phrase := range phrases {
		for i := 0; i+len(phrase) <= len(tokens); i++ {
			if matchAt(tokens, i, phrase) {
				hits++
			}
		}
	}

	return hits
}

func matchAt(tokens []string, at int, phrase []string) bool {
	for j, w := range phrase {
		if tokens[at+j] != w {
			return false
		}
	}

	return true
}

func repetition(tokens []string) float64 {
	seen := make(map[string]struct{}, len(tokens))
	repeats := 0

	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			repeats++
			continue
		}

		seen[t] = struct{}{}
	}

	return math.Min(100, 100*float64(repeats)/float64(len(tokens)))
}

func scoreableText(room *models.Room) []string {
	var texts []string

	if room.Content != nil {
		texts = append(texts, room.Content.En, room.Content.Vi)
	}

	for _, e := range room.Entries {
		texts = append(texts, e.Copy.En, e.Copy.Vi)
	}

	return texts
}

// String renders the score for log lines.
func String(q models.QualityScore) string {
	return fmt.Sprintf("overall=%d clarity=%.1f density=%.1f sentiment=%.2f repetition=%.1f fields=%d",
		q.Overall, q.Clarity, q.Density, q.Sentiment, q.Repetition, q.FieldsScored)
}
