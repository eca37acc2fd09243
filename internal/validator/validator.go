// Package validator runs the room pipeline: auto-repair, structural rules,
// crisis scanning, bilingual alignment and quality scoring, merged into a
// single report.
package validator

import (
	"roomcheck/internal/crisis"
	"roomcheck/internal/models"
	"roomcheck/internal/normalizer"
	"roomcheck/internal/quality"
)

// Validator orchestrates the pipeline. It holds only immutable collaborators
// and is safe for concurrent use.
type Validator struct {
	repairer *normalizer.Repairer
	detector *crisis.Detector
	scorer   *quality.Scorer
}

// Option configures a Validator.
type Option func(*Validator)

// WithDetector replaces the default crisis detector.
func WithDetector(d *crisis.Detector) Option {
	return func(v *Validator) { v.detector = d }
}

// WithScorer replaces the default quality scorer.
func WithScorer(s *quality.Scorer) Option {
	return func(v *Validator) { v.scorer = s }
}

// New creates a validator with the default catalog data.
func New(opts ...Option) *Validator {
	v := &Validator{
		repairer: normalizer.NewRepairer(),
		detector: crisis.NewDetector(),
		scorer:   quality.NewScorer(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate repairs a copy of room and reports everything that is still wrong
// with it under mode. The input is never modified.
func (v *Validator) Validate(room *models.Room, mode models.Mode) models.Report {
	fix := v.repairer.Repair(room)
	cleaned := fix.Room

	c := v.check(cleaned, mode)

	flags := v.detector.Scan(cleaned)
	if len(flags) > 0 && (cleaned.CrisisFooter == nil || cleaned.CrisisFooter.IsEmpty()) {
		c.warn("crisis_footer", "crisis_footer_missing",
			"crisis language detected but the room has no crisis footer",
			"add a bilingual crisis_footer with support resources")
	}

	return models.Report{
		CleanedRecord: cleaned,
		Strictness:    mode.Strictness,
		Errors:        c.errors,
		Warnings:      c.warnings,
		Changes:       fix.Changes,
		CrisisFlags:   flags,
		QualityScore:  v.scorer.Score(cleaned),
		Autofixed:     fix.Fixed,
		Valid:         len(c.errors) == 0,
	}
}

// Check runs the structural and soft rules on room as given, without
// repairing it first. AutoFixable marks the errors Validate would repair.
func (v *Validator) Check(room *models.Room, mode models.Mode) ([]models.ValidationError, []models.ValidationWarning) {
	if room == nil {
		room = &models.Room{}
	}

	c := v.check(room, mode)

	return c.errors, c.warnings
}
