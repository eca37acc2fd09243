package validator

import (
	"fmt"
	"strconv"
	"strings"

	"roomcheck/internal/bilingual"
	"roomcheck/internal/models"
	"roomcheck/internal/normalizer"
	"roomcheck/internal/rules"
)

// checker accumulates diagnostics for one room under one mode.
type checker struct {
	repairer *normalizer.Repairer
	mode     models.Mode
	errors   []models.ValidationError
	warnings []models.ValidationWarning
}

func (v *Validator) check(room *models.Room, mode models.Mode) *checker {
	c := &checker{
		repairer: v.repairer,
		mode:     mode,
		errors:   []models.ValidationError{},
		warnings: []models.ValidationWarning{},
	}

	c.checkID(room)
	c.checkTier(room)
	c.checkTitle(room)
	c.checkEntryCount(room)
	c.checkEntries(room)
	c.checkIntro(room)
	c.checkDisclaimer(room)
	c.checkAlignment(room)

	return c
}

func (c *checker) strict() bool {
	return c.mode.Strictness == models.StrictnessStrict
}

func (c *checker) fail(e models.ValidationError) {
	e.Severity = models.SeverityError
	c.errors = append(c.errors, e)
}

func (c *checker) warn(field, rule, message, suggestion string) {
	c.warnings = append(c.warnings, models.ValidationWarning{
		Field:      field,
		Rule:       rule,
		Message:    message,
		Suggestion: suggestion,
	})
}

// failOrWarn records an error when promote is set and a warning otherwise.
func (c *checker) failOrWarn(promote bool, e models.ValidationError, suggestion string) {
	if promote {
		c.fail(e)
		return
	}

	c.warn(e.Field, e.Rule, e.Message, suggestion)
}

func (c *checker) checkID(room *models.Room) {
	if strings.TrimSpace(room.ID) == "" {
		c.fail(models.ValidationError{Field: "id", Rule: "id_required", Message: "id is required"})
		return
	}

	if !rules.ValidateID(room.ID) {
		c.fail(models.ValidationError{
			Field:    "id",
			Rule:     "id_format",
			Message:  "id must be lowercase snake_case",
			Actual:   room.ID,
			Expected: rules.IDPatternText,
		})
	}
}

func (c *checker) checkTier(room *models.Room) {
	if rules.ValidateTier(room.Tier) {
		return
	}

	canonical, ok := rules.NormalizeTier(room.Tier)

	e := models.ValidationError{
		Field:       "tier",
		Rule:        "tier_invalid",
		Message:     "tier is not a recognized tier",
		Actual:      room.Tier,
		Expected:    strings.Join(rules.Tiers, ", "),
		AutoFixable: ok,
	}
	if ok {
		e.Expected = canonical
	}

	c.fail(e)
}

func (c *checker) checkTitle(room *models.Room) {
	en, vi := blank(room.Title.En), blank(room.Title.Vi)
	if !en && !vi {
		return
	}

	e := models.ValidationError{
		Field:       "title",
		Rule:        "title_required",
		Message:     "title must be present in both languages",
		AutoFixable: en != vi,
	}

	c.failOrWarn(!c.mode.AllowMissingFields, e, "add the missing title translation")
}

func (c *checker) checkEntryCount(room *models.Room) {
	n := len(room.Entries)
	if n == 0 && c.mode.AllowEmptyEntries {
		return
	}

	bounds := rules.Bounds{Min: c.mode.MinEntries, Max: c.mode.MaxEntries}
	if bounds.Contains(n) {
		return
	}

	c.fail(models.ValidationError{
		Field:    "entries",
		Rule:     "entry_count",
		Message:  fmt.Sprintf("room has %d entries", n),
		Actual:   strconv.Itoa(n),
		Expected: bounds.String(),
	})
}

func (c *checker) checkEntries(room *models.Room) {
	seen := make(map[string]int, len(room.Entries))

	for i, e := range room.Entries {
		prefix := fmt.Sprintf("entries[%d]", i)
		aggregate := i == len(room.Entries)-1 && e.Slug == rules.AggregateSlug

		c.checkSlug(prefix, e.Slug, i, seen)
		c.checkCopy(prefix, e.Copy, aggregate)
		c.checkAudio(prefix, e.Audio, room.ID, i)
		c.checkKeywords(prefix+".keywords_en", e.KeywordsEn)
		c.checkKeywords(prefix+".keywords_vi", e.KeywordsVi)
		c.checkTags(prefix+".tags", e.Tags)
	}
}

func (c *checker) checkSlug(prefix, slug string, idx int, seen map[string]int) {
	field := prefix + ".slug"

	if strings.TrimSpace(slug) == "" {
		c.fail(models.ValidationError{Field: field, Rule: "slug_required", Message: "slug is required"})
		return
	}

	if !rules.ValidateSlug(slug) {
		fixed := c.repairer.NormalizeSlug(slug)

		c.fail(models.ValidationError{
			Field:       field,
			Rule:        "slug_format",
			Message:     "slug must be lowercase kebab-case",
			Actual:      slug,
			Expected:    rules.SlugPatternText,
			AutoFixable: rules.ValidateSlug(fixed),
		})
	}

	if first, ok := seen[slug]; ok {
		c.fail(models.ValidationError{
			Field:   field,
			Rule:    "slug_duplicate",
			Message: fmt.Sprintf("slug duplicates entries[%d].slug", first),
			Actual:  slug,
		})

		return
	}

	seen[slug] = idx
}

func (c *checker) checkCopy(prefix string, body models.Bilingual, aggregate bool) {
	field := prefix + ".copy"
	en, vi := blank(body.En), blank(body.Vi)

	switch {
	case en && vi:
		c.fail(models.ValidationError{Field: field, Rule: "copy_required", Message: "entry body is empty in both languages"})
		return
	case en || vi:
		missing := "en"
		if vi {
			missing = "vi"
		}

		e := models.ValidationError{
			Field:   field + "." + missing,
			Rule:    "copy_incomplete",
			Message: fmt.Sprintf("entry body is missing the %s translation", missing),
		}
		c.failOrWarn(c.mode.RequireBilingualCopy, e, "translate the entry body")
	}

	if aggregate {
		return
	}

	for _, side := range []struct{ lang, text string }{{"en", body.En}, {"vi", body.Vi}} {
		if blank(side.text) {
			continue
		}

		if n := rules.CountWords(side.text); !rules.EntryWordCount.Contains(n) {
			c.warn(field+"."+side.lang, "copy_length",
				fmt.Sprintf("entry body has %d words", n),
				fmt.Sprintf("aim for %s words", rules.EntryWordCount))
		}
	}
}

func (c *checker) checkAudio(prefix, audio, roomID string, idx int) {
	field := prefix + ".audio"

	if strings.TrimSpace(audio) == "" {
		if c.mode.RequireAudio {
			c.fail(models.ValidationError{
				Field:    field,
				Rule:     "audio_required",
				Message:  "entry has no audio file",
				Expected: rules.ExpectedAudioFilename(roomID, idx, "en"),
			})
		}

		return
	}

	if !rules.ValidateAudioFilename(audio) {
		c.fail(models.ValidationError{
			Field:    field,
			Rule:     "audio_format",
			Message:  "audio filename does not follow {room_id}_{NN}_{lang}.mp3",
			Actual:   audio,
			Expected: rules.ExpectedAudioFilename(roomID, idx, "en"),
		})

		return
	}

	if rules.ValidateID(roomID) && !rules.MatchesExpectedAudio(audio, roomID, idx) {
		msg := "audio filename does not match the room id"
		if n, ok := rules.AudioIndex(audio); ok && n != idx+1 {
			msg = fmt.Sprintf("audio filename is numbered %02d but the entry is at position %02d", n, idx+1)
		}

		e := models.ValidationError{
			Field:    field,
			Rule:     "audio_index",
			Message:  msg,
			Actual:   audio,
			Expected: rules.ExpectedAudioFilename(roomID, idx, "en"),
		}
		c.failOrWarn(c.strict(), e, "rename the file to "+e.Expected)
	}
}

func (c *checker) checkKeywords(field string, keywords []string) {
	if n := len(keywords); !rules.KeywordCount.Contains(n) {
		c.warn(field, "keywords_count",
			fmt.Sprintf("%d keywords", n),
			fmt.Sprintf("use %s keywords", rules.KeywordCount))
	}
}

func (c *checker) checkTags(field string, tags []string) {
	if n := len(tags); !rules.TagCount.Contains(n) {
		c.warn(field, "tag_count",
			fmt.Sprintf("%d tags", n),
			fmt.Sprintf("use %s tags", rules.TagCount))
	}

	if unknown := rules.ValidateTags(tags); len(unknown) > 0 {
		e := models.ValidationError{
			Field:   field,
			Rule:    "tag_vocabulary",
			Message: "tags outside the vocabulary: " + strings.Join(unknown, ", "),
			Actual:  strings.Join(unknown, ", "),
		}
		c.failOrWarn(c.strict(), e, "pick tags from the vocabulary")
	}
}

func (c *checker) checkIntro(room *models.Room) {
	if room.Content == nil {
		return
	}

	for _, side := range []struct{ lang, text string }{{"en", room.Content.En}, {"vi", room.Content.Vi}} {
		if blank(side.text) {
			continue
		}

		if n := rules.CountWords(side.text); !rules.IntroWordCount.Contains(n) {
			c.warn("content."+side.lang, "intro_length",
				fmt.Sprintf("intro has %d words", n),
				fmt.Sprintf("aim for %s words", rules.IntroWordCount))
		}
	}
}

func (c *checker) checkDisclaimer(room *models.Room) {
	if !rules.RequiresDisclaimer(room.Tier) {
		return
	}

	d := room.SafetyDisclaimer
	if d != nil && !blank(d.En) && !blank(d.Vi) {
		return
	}

	c.fail(models.ValidationError{
		Field:       "safety_disclaimer",
		Rule:        "safety_disclaimer_required",
		Message:     fmt.Sprintf("tier %s requires a bilingual safety disclaimer", room.Tier),
		AutoFixable: d == nil || d.IsEmpty(),
	})
}

type textPair struct {
	field string
	text  models.Bilingual
}

func (c *checker) checkAlignment(room *models.Room) {
	pairs := []textPair{{"title", room.Title}}

	if room.Content != nil {
		pairs = append(pairs, textPair{"content", *room.Content})
	}

	for i, e := range room.Entries {
		pairs = append(pairs, textPair{fmt.Sprintf("entries[%d].copy", i), e.Copy})
	}

	for _, p := range pairs {
		if blank(p.text.En) || blank(p.text.Vi) {
			continue
		}

		a := bilingual.Check(p.text.En, p.text.Vi)
		if a.Score < bilingual.WarnBelow {
			c.warn(p.field, "bilingual_alignment",
				fmt.Sprintf("translation alignment score %.2f", a.Score), a.Suggestion)
		}
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
