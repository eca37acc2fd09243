package normalizer

import (
	"fmt"
	"path"
	"strings"

	"roomcheck/internal/models"
	"roomcheck/internal/rules"
	"roomcheck/pkg/utils"
)

// normalizeTier maps legacy and display tier labels to canonical ids.
// Unrecognized values pass through untouched.
func (r *Repairer) normalizeTier(room *models.Room) []string {
	canonical, ok := rules.NormalizeTier(room.Tier)
	if !ok || canonical == room.Tier {
		return nil
	}

	change := fmt.Sprintf("tier: normalized %q to %q", room.Tier, canonical)
	room.Tier = canonical

	return []string{change}
}

func (r *Repairer) normalizeSlugs(room *models.Room) []string {
	var changes []string

	for i := range room.Entries {
		e := &room.Entries[i]

		slug := r.NormalizeSlug(e.Slug)
		if slug == "" || slug == e.Slug {
			continue
		}

		changes = append(changes, fmt.Sprintf("entries[%d].slug: normalized %q to %q", i, e.Slug, slug))
		e.Slug = slug
	}

	return changes
}

// NormalizeSlug lower-cases, turns underscores and spaces into hyphens,
// strips disallowed characters, collapses hyphen runs and trims the edges.
func (r *Repairer) NormalizeSlug(slug string) string {
	s := strings.ToLower(strings.TrimSpace(slug))
	s = r.slugSeparators.ReplaceAllString(s, "-")
	s = r.slugDisallowed.ReplaceAllString(s, "")
	s = r.hyphenRun.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// correctAudio strips tier markers (vip9, free, kids2) embedded in an entry's
// audio filename when the room's own id does not carry that marker.
func (r *Repairer) correctAudio(room *models.Room) []string {
	idTokens := make(map[string]struct{})
	for _, tok := range utils.Words(strings.ReplaceAll(room.ID, "_", " ")) {
		idTokens[tok] = struct{}{}
	}

	var changes []string

	for i := range room.Entries {
		e := &room.Entries[i]
		if e.Audio == "" {
			continue
		}

		corrected := stripTierMarkers(e.Audio, idTokens)
		if corrected == e.Audio {
			continue
		}

		changes = append(changes, fmt.Sprintf("entries[%d].audio: removed tier marker, %q to %q", i, e.Audio, corrected))
		e.Audio = corrected
	}

	return changes
}

func stripTierMarkers(name string, idTokens map[string]struct{}) string {
	ext := path.Ext(name)
	tokens := strings.Split(strings.TrimSuffix(name, ext), "_")

	// The trailing index and language tokens are never touched.
	if len(tokens) < 3 {
		return name
	}

	head := tokens[:len(tokens)-2]
	kept := make([]string, 0, len(tokens))

	for _, tok := range head {
		if rules.IsTierMarker(tok) {
			if _, inID := idTokens[tok]; !inID {
				continue
			}
		}

		kept = append(kept, tok)
	}

	if len(kept) == 0 || len(kept) == len(head) {
		return name
	}

	kept = append(kept, tokens[len(tokens)-2:]...)

	return strings.Join(kept, "_") + ext
}

// backfillTitle copies the present title language into the empty one. This
// is a placeholder, not a translation.
func (r *Repairer) backfillTitle(room *models.Room) []string {
	en := strings.TrimSpace(room.Title.En)
	vi := strings.TrimSpace(room.Title.Vi)

	switch {
	case en == "" && vi != "":
		room.Title.En = room.Title.Vi
		return []string{"title.en: backfilled from title.vi (needs translation)"}
	case vi == "" && en != "":
		room.Title.Vi = room.Title.En
		return []string{"title.vi: backfilled from title.en (needs translation)"}
	}

	return nil
}

func (r *Repairer) normalizeCopy(room *models.Room) []string {
	var changes []string

	for i := range room.Entries {
		e := &room.Entries[i]

		if text := r.normalizeText(e.Copy.En); text != e.Copy.En {
			e.Copy.En = text
			changes = append(changes, fmt.Sprintf("entries[%d].copy.en: normalized whitespace and punctuation", i))
		}

		if text := r.normalizeText(e.Copy.Vi); text != e.Copy.Vi {
			e.Copy.Vi = text
			changes = append(changes, fmt.Sprintf("entries[%d].copy.vi: normalized whitespace and punctuation", i))
		}
	}

	return changes
}

// normalizeText collapses whitespace, normalizes ellipses and puts exactly one
// space between terminal punctuation and a following capital letter.
func (r *Repairer) normalizeText(text string) string {
	s := r.inlineSpace.ReplaceAllString(text, " ")
	s = r.spaceAtNewline.ReplaceAllString(s, "\n")
	s = r.blankLines.ReplaceAllString(s, "\n\n")
	s = strings.ReplaceAll(s, "…", "...")
	s = r.spacedEllipsis.ReplaceAllString(s, "...")
	s = r.dotRun.ReplaceAllString(s, "...")
	s = r.terminalThenCap.ReplaceAllString(s, "$1 $2")

	return strings.TrimSpace(s)
}

func (r *Repairer) backfillKeywords(room *models.Room) []string {
	var changes []string

	for i := range room.Entries {
		e := &room.Entries[i]

		if len(e.KeywordsEn) == 0 {
			if kw := r.deriveKeywords(e.Copy.En); len(kw) > 0 {
				e.KeywordsEn = kw
				changes = append(changes, fmt.Sprintf("entries[%d].keywords_en: derived %d keywords from copy.en", i, len(kw)))
			}
		}

		if len(e.KeywordsVi) == 0 {
			if kw := r.deriveKeywords(e.Copy.Vi); len(kw) > 0 {
				e.KeywordsVi = kw
				changes = append(changes, fmt.Sprintf("entries[%d].keywords_vi: derived %d keywords from copy.vi", i, len(kw)))
			}
		}
	}

	return changes
}

// deriveKeywords takes the first clause of text and keeps its distinct
// tokens longer than three runes, up to the catalog maximum.
func (r *Repairer) deriveKeywords(text string) []string {
	clause := text
	if loc := r.clauseTerminator.FindStringIndex(text); loc != nil {
		clause = text[:loc[0]]
	}

	seen := make(map[string]struct{})

	var out []string

	for _, w := range utils.Words(clause) {
		if utils.RuneLen(w) <= 3 {
			continue
		}

		if _, dup := seen[w]; dup {
			continue
		}

		seen[w] = struct{}{}

		out = append(out, w)
		if len(out) == rules.KeywordCount.Max {
			break
		}
	}

	return out
}

func (r *Repairer) injectDisclaimer(room *models.Room) []string {
	if !rules.RequiresDisclaimer(room.Tier) {
		return nil
	}

	if room.SafetyDisclaimer != nil && !room.SafetyDisclaimer.IsEmpty() {
		return nil
	}

	room.SafetyDisclaimer = &models.Bilingual{
		En: rules.DefaultDisclaimerEn,
		Vi: rules.DefaultDisclaimerVi,
	}

	return []string{fmt.Sprintf("safety_disclaimer: inserted default text required for tier %q", room.Tier)}
}

// regenerateAggregate rebuilds the body of a trailing all-entries entry as the
// ordinal-prefixed concatenation of the preceding entries.
func (r *Repairer) regenerateAggregate(room *models.Room) []string {
	n := len(room.Entries)
	if n < 2 || room.Entries[n-1].Slug != rules.AggregateSlug {
		return nil
	}

	en := aggregateBody(room.Entries[:n-1], func(e models.Entry) string { return e.Copy.En })
	vi := aggregateBody(room.Entries[:n-1], func(e models.Entry) string { return e.Copy.Vi })

	last := &room.Entries[n-1]
	if last.Copy.En == en && last.Copy.Vi == vi {
		return nil
	}

	last.Copy = models.Bilingual{En: en, Vi: vi}

	return []string{fmt.Sprintf("entries[%d].copy: regenerated aggregate from %d entries", n-1, n-1)}
}

func aggregateBody(entries []models.Entry, body func(models.Entry) string) string {
	parts := make([]string, 0, len(entries))

	for i, e := range entries {
		text := strings.TrimSpace(body(e))
		if text == "" {
			continue
		}

		parts = append(parts, fmt.Sprintf("%d. %s", i+1, text))
	}

	return strings.Join(parts, "\n\n")
}
