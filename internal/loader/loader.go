// Package loader is the boundary between room storage and the validation
// pipeline. It resolves ids through a Store, adapts raw documents into the
// canonical room shape and runs the validator. Callers always get a report.
package loader

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"roomcheck/internal/logger"
	"roomcheck/internal/models"
	"roomcheck/internal/quality"
	"roomcheck/internal/validator"
)

// Degenerate report rules.
const (
	RuleRoomNotFound     = "room_not_found"
	RuleStoreUnavailable = "store_unavailable"
)

const defaultConcurrency = 8

// Loader validates rooms held in a store.
type Loader struct {
	store       Store
	validator   *validator.Validator
	log         *logger.Logger
	concurrency int
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds the number of rooms LoadMany validates at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New creates a loader over store.
func New(store Store, v *validator.Validator, opts ...Option) *Loader {
	l := &Loader{
		store:       store,
		validator:   v,
		log:         logger.Discard(),
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load fetches, adapts and validates one room. Lookup failures are reported
// as a report with a single structural error, never as a Go error.
func (l *Loader) Load(ctx context.Context, id string, mode models.Mode) models.Report {
	start := time.Now()

	doc, err := l.store.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
			l.log.Info("room not found", "room_id", id)
			return NotFoundReport(id, mode)
		}

		l.log.Error("failed to fetch room", "room_id", id, "error", err)

		return UnavailableReport(id, mode, err)
	}

	report := l.ValidateRaw(doc, mode)

	l.log.Debug("validated room",
		"room_id", id,
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
		"crisis_severity", report.MaxCrisisSeverity(),
		"quality", quality.String(report.QualityScore),
		"duration", time.Since(start),
	)

	return report
}

// LoadMany validates ids concurrently and returns the reports in input order.
func (l *Loader) LoadMany(ctx context.Context, ids []string, mode models.Mode) []models.Report {
	runID := uuid.NewString()
	log := l.log.With("batch_id", runID)
	log.Info("batch validation started", "rooms", len(ids), "mode", mode.Strictness)

	reports := make([]models.Report, len(ids))

	var g errgroup.Group
	g.SetLimit(l.concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			reports[i] = l.Load(ctx, id, mode)
			return nil
		})
	}

	_ = g.Wait()

	invalid := 0

	for _, r := range reports {
		if !r.Valid {
			invalid++
		}
	}

	log.Info("batch validation finished", "rooms", len(ids), "invalid", invalid)

	return reports
}

// Ping checks that the store is reachable. Stores without a health check
// are assumed reachable.
func (l *Loader) Ping(ctx context.Context) error {
	if p, ok := l.store.(Pinger); ok {
		return p.Ping(ctx)
	}

	return nil
}

// ValidateRaw adapts and validates a document that did not come from the store.
func (l *Loader) ValidateRaw(doc Document, mode models.Mode) models.Report {
	return l.validator.Validate(Adapt(doc), mode)
}

// NotFoundReport is the report returned for an id the store does not hold.
func NotFoundReport(id string, mode models.Mode) models.Report {
	return degenerate(mode, models.ValidationError{
		Field:    "id",
		Rule:     RuleRoomNotFound,
		Severity: models.SeverityError,
		Message:  "room not found",
		Actual:   id,
	})
}

// UnavailableReport is the report returned when the store could not be read.
func UnavailableReport(id string, mode models.Mode, err error) models.Report {
	return degenerate(mode, models.ValidationError{
		Field:    "id",
		Rule:     RuleStoreUnavailable,
		Severity: models.SeverityError,
		Message:  "room store unavailable: " + err.Error(),
		Actual:   id,
	})
}

func degenerate(mode models.Mode, e models.ValidationError) models.Report {
	return models.Report{
		Strictness:  mode.Strictness,
		Errors:      []models.ValidationError{e},
		Warnings:    []models.ValidationWarning{},
		Changes:     []string{},
		CrisisFlags: []models.CrisisFlag{},
	}
}
