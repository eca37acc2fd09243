// Package normalizer implements the deterministic auto-repair passes that run
// before a room is validated.
package normalizer

import (
	"fmt"
	"regexp"

	"roomcheck/internal/models"
	"roomcheck/internal/rules"
)

// pass is one repair step. It mutates room in place and returns a change
// description for every mutation it made.
type pass func(room *models.Room) []string

// Repairer applies the repair passes in a fixed order so that repeated
// application converges. A Repairer holds only compiled patterns and is safe
// for concurrent use.
type Repairer struct {
	slugDisallowed   *regexp.Regexp
	slugSeparators   *regexp.Regexp
	hyphenRun        *regexp.Regexp
	inlineSpace      *regexp.Regexp
	spaceAtNewline   *regexp.Regexp
	blankLines       *regexp.Regexp
	spacedEllipsis   *regexp.Regexp
	dotRun           *regexp.Regexp
	terminalThenCap  *regexp.Regexp
	clauseTerminator *regexp.Regexp
	passes           []pass
}

// NewRepairer creates a repairer with the standard pass order.
func NewRepairer() *Repairer {
	r := &Repairer{
		slugDisallowed:   regexp.MustCompile(`[^a-z0-9-]`),
		slugSeparators:   regexp.MustCompile(`[_\s]+`),
		hyphenRun:        regexp.MustCompile(`-{2,}`),
		inlineSpace:      regexp.MustCompile(`[ \t\f\v\x{00A0}]+`),
		spaceAtNewline:   regexp.MustCompile(` ?\n ?`),
		blankLines:       regexp.MustCompile(`\n{3,}`),
		spacedEllipsis:   regexp.MustCompile(`\. \. \.`),
		dotRun:           regexp.MustCompile(`\.{4,}`),
		terminalThenCap:  regexp.MustCompile(`([.!?]) *(\p{Lu})`),
		clauseTerminator: regexp.MustCompile(`[.!?;:,\n]`),
	}

	r.passes = []pass{
		r.normalizeTier,
		r.normalizeSlugs,
		r.correctAudio,
		r.backfillTitle,
		r.normalizeCopy,
		r.backfillKeywords,
		r.injectDisclaimer,
		r.regenerateAggregate,
	}

	return r
}

// Repair returns a repaired deep copy of room together with the ordered
// changelog. The input is never modified. Repair does not fail: anything it
// cannot interpret is left as is and reported in RemainingErrors.
func (r *Repairer) Repair(room *models.Room) models.AutoFixResult {
	fixed := room.Clone()
	if fixed == nil {
		fixed = &models.Room{}
	}

	changes := []string{}
	for _, p := range r.passes {
		changes = append(changes, p(fixed)...)
	}

	return models.AutoFixResult{
		Fixed:           len(changes) > 0,
		Room:            fixed,
		Changes:         changes,
		RemainingErrors: remainingErrors(fixed),
	}
}

// remainingErrors lists the defects in classes repair addresses that are
// still present after repair.
func remainingErrors(room *models.Room) []models.ValidationError {
	errs := []models.ValidationError{}

	if room.ID != "" && !rules.ValidateID(room.ID) {
		errs = append(errs, models.ValidationError{
			Field:    "id",
			Rule:     "id_format",
			Severity: models.SeverityError,
			Message:  "id is not lowercase snake_case and cannot be repaired automatically",
			Actual:   room.ID,
			Expected: rules.IDPatternText,
		})
	}

	if !rules.ValidateTier(room.Tier) {
		errs = append(errs, models.ValidationError{
			Field:    "tier",
			Rule:     "tier_invalid",
			Severity: models.SeverityError,
			Message:  "tier is not a recognized tier label",
			Actual:   room.Tier,
		})
	}

	for i, e := range room.Entries {
		if e.Slug != "" && !rules.ValidateSlug(e.Slug) {
			errs = append(errs, models.ValidationError{
				Field:    fmt.Sprintf("entries[%d].slug", i),
				Rule:     "slug_format",
				Severity: models.SeverityError,
				Message:  "slug is still not kebab-case after normalization",
				Actual:   e.Slug,
				Expected: rules.SlugPatternText,
			})
		}
	}

	return errs
}
