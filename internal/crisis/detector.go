// Package crisis scans room text for crisis-language signals. Detection is
// recall oriented: false positives are expected and left to human triage.
package crisis

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"roomcheck/internal/models"
	"roomcheck/internal/rules"
)

// Field is one scannable text field with its report path.
type Field struct {
	Path string
	Text string
}

// Detector matches text against severity-banded keyword lists.
type Detector struct {
	bands []rules.CrisisBand
}

// NewDetector creates a detector over the catalog's crisis bands.
func NewDetector() *Detector {
	return NewDetectorWithBands(rules.CrisisBands)
}

// NewDetectorWithBands creates a detector over caller-supplied bands.
func NewDetectorWithBands(bands []rules.CrisisBand) *Detector {
	lowered := make([]rules.CrisisBand, len(bands))

	for i, b := range bands {
		lowered[i] = b
		lowered[i].Keywords = make([]string, len(b.Keywords))

		for j, kw := range b.Keywords {
			lowered[i].Keywords[j] = fold(kw)
		}
	}

	return &Detector{bands: lowered}
}

// Scan checks the intro and every entry body of room. Each field can raise at
// most one flag per band.
func (d *Detector) Scan(room *models.Room) []models.CrisisFlag {
	flags := []models.CrisisFlag{}
	if room == nil {
		return flags
	}

	for _, f := range Fields(room) {
		flags = append(flags, d.ScanText(f.Path, f.Text)...)
	}

	return flags
}

// ScanText checks a single text field.
func (d *Detector) ScanText(path, text string) []models.CrisisFlag {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := fold(text)

	var flags []models.CrisisFlag

	for _, band := range d.bands {
		var matched []string

		for _, kw := range band.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}

		if len(matched) == 0 {
			continue
		}

		flags = append(flags, models.CrisisFlag{
			Field:           path,
			Matched:         matched,
			Severity:        band.Severity,
			Urgency:         band.Urgency,
			SuggestedAction: band.SuggestedAction,
		})
	}

	return flags
}

// fold puts text in the form keywords are matched in: NFC, lower case.
// Decomposed Vietnamese input would otherwise never match.
func fold(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}

// Fields lists the bilingual text fields that are scanned: the intro and
// every entry body, in both languages.
func Fields(room *models.Room) []Field {
	var fields []Field

	if room.Content != nil {
		fields = append(fields,
			Field{Path: "content.en", Text: room.Content.En},
			Field{Path: "content.vi", Text: room.Content.Vi},
		)
	}

	for i, e := range room.Entries {
		fields = append(fields,
			Field{Path: fmt.Sprintf("entries[%d].copy.en", i), Text: e.Copy.En},
			Field{Path: fmt.Sprintf("entries[%d].copy.vi", i), Text: e.Copy.Vi},
		)
	}

	return fields
}
