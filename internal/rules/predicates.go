package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateID reports whether id is lowercase snake_case.
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}

// ValidateSlug reports whether slug is lowercase kebab-case.
func ValidateSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// ValidateTier reports whether tier is a canonical tier id.
func ValidateTier(tier string) bool {
	_, ok := tierSet[tier]
	return ok
}

// NormalizeTier maps a legacy or display label to its canonical tier id.
// The second result is false when the label is not recognized; the input is
// then returned untouched.
func NormalizeTier(tier string) (string, bool) {
	if ValidateTier(tier) {
		return tier, true
	}

	key := strings.Join(strings.Fields(strings.ToLower(tier)), " ")
	if canonical, ok := tierAliases[key]; ok {
		return canonical, true
	}

	return tier, false
}

// RequiresDisclaimer reports whether rooms of the given tier need a safety disclaimer.
func RequiresDisclaimer(tier string) bool {
	_, ok := disclaimerTiers[tier]
	return ok
}

// ValidateAudioFilename reports whether name follows the
// {room_id}_{NN}_{lang}.mp3 pattern. It does not check that the prefix or
// index match a particular room; see ExpectedAudioFilename.
func ValidateAudioFilename(name string) bool {
	return audioPattern.MatchString(name)
}

// AudioIndex returns the 1-based index encoded in an audio filename.
func AudioIndex(name string) (int, bool) {
	m := audioPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	return n, true
}

// ExpectedAudioFilename builds the canonical audio filename for the entry at
// zero-based position idx.
func ExpectedAudioFilename(roomID string, idx int, lang string) string {
	return fmt.Sprintf("%s_%02d_%s.mp3", roomID, idx+1, lang)
}

// MatchesExpectedAudio reports whether name is the canonical filename for the
// entry at zero-based position idx in any supported language.
func MatchesExpectedAudio(name, roomID string, idx int) bool {
	for _, lang := range AudioLanguages {
		if name == ExpectedAudioFilename(roomID, idx, lang) {
			return true
		}
	}

	return false
}

// ValidateTags returns the tags that are not in the vocabulary, in input order.
func ValidateTags(tags []string) []string {
	var unknown []string

	for _, tag := range tags {
		if _, ok := tagSet[tag]; !ok {
			unknown = append(unknown, tag)
		}
	}

	return unknown
}

// IsTierMarker reports whether a filename token names a tier (vip9, free, kids1).
func IsTierMarker(token string) bool {
	if token == TierFree {
		return true
	}

	for _, prefix := range []string{"vip", "kids"} {
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok || rest == "" {
			continue
		}

		if _, err := strconv.Atoi(rest); err == nil {
			return true
		}
	}

	return false
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
