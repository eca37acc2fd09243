package models

import "roomcheck/internal/rules"

// Severity levels for structural diagnostics.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Strictness levels.
const (
	StrictnessStrict  = "strict"
	StrictnessPreview = "preview"
	StrictnessRelaxed = "relaxed"
)

// ValidationError is a violated hard constraint.
type ValidationError struct {
	Field       string `json:"field"`
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Actual      string `json:"actual,omitempty"`
	Expected    string `json:"expected,omitempty"`
	AutoFixable bool   `json:"autoFixable"`
}

// ValidationWarning is a violated soft (length, count or style) constraint.
type ValidationWarning struct {
	Field      string `json:"field"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CrisisFlag is a crisis-language match in one text field for one severity band.
type CrisisFlag struct {
	Field           string   `json:"field"`
	Urgency         string   `json:"urgency"`
	SuggestedAction string   `json:"suggestedAction"`
	Matched         []string `json:"matched"`
	Severity        int      `json:"severity"`
}

// QualityScore holds the averaged writing-quality metrics for a room.
type QualityScore struct {
	Clarity      float64 `json:"clarity"`
	Density      float64 `json:"density"`
	Sentiment    float64 `json:"sentiment"`
	Repetition   float64 `json:"repetition"`
	Overall      int     `json:"overall"`
	FieldsScored int     `json:"fieldsScored"`
}

// AutoFixResult is the outcome of one auto-repair run.
type AutoFixResult struct {
	Room            *Room             `json:"room"`
	Changes         []string          `json:"changes"`
	RemainingErrors []ValidationError `json:"remainingErrors"`
	Fixed           bool              `json:"fixed"`
}

// Mode selects which violation classes are tolerated.
type Mode struct {
	Strictness           string `json:"strictness" yaml:"strictness"`
	MinEntries           int    `json:"minEntries" yaml:"min_entries"`
	MaxEntries           int    `json:"maxEntries" yaml:"max_entries"`
	AllowMissingFields   bool   `json:"allowMissingFields" yaml:"allow_missing_fields"`
	AllowEmptyEntries    bool   `json:"allowEmptyEntries" yaml:"allow_empty_entries"`
	RequireAudio         bool   `json:"requireAudio" yaml:"require_audio"`
	RequireBilingualCopy bool   `json:"requireBilingualCopy" yaml:"require_bilingual_copy"`
}

// Preset modes.
var (
	StrictMode = Mode{
		Strictness:           StrictnessStrict,
		RequireAudio:         true,
		RequireBilingualCopy: true,
		MinEntries:           rules.EntryCount.Min,
		MaxEntries:           rules.EntryCount.Max,
	}
	PreviewMode = Mode{
		Strictness:           StrictnessPreview,
		AllowMissingFields:   true,
		RequireBilingualCopy: true,
		MinEntries:           1,
		MaxEntries:           12,
	}
	RelaxedMode = Mode{
		Strictness:         StrictnessRelaxed,
		AllowMissingFields: true,
		AllowEmptyEntries:  true,
		MinEntries:         0,
		MaxEntries:         20,
	}
)

// ModeFor returns the preset for a strictness name. Unknown names yield StrictMode and false.
func ModeFor(name string) (Mode, bool) {
	switch name {
	case StrictnessStrict:
		return StrictMode, true
	case StrictnessPreview:
		return PreviewMode, true
	case StrictnessRelaxed:
		return RelaxedMode, true
	default:
		return StrictMode, false
	}
}

// Report is the aggregated result of validating one room.
type Report struct {
	CleanedRecord *Room               `json:"cleanedRecord"`
	Strictness    string              `json:"strictness"`
	Errors        []ValidationError   `json:"errors"`
	Warnings      []ValidationWarning `json:"warnings"`
	Changes       []string            `json:"changes"`
	CrisisFlags   []CrisisFlag        `json:"crisisFlags"`
	QualityScore  QualityScore        `json:"qualityScore"`
	Autofixed     bool                `json:"autofixed"`
	Valid         bool                `json:"valid"`
}

// HasErrors reports whether any hard constraint was violated.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// MaxCrisisSeverity returns the worst crisis severity in the report, or 0.
func (r *Report) MaxCrisisSeverity() int {
	worst := 0
	for _, f := range r.CrisisFlags {
		if f.Severity > worst {
			worst = f.Severity
		}
	}

	return worst
}
