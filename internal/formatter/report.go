package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"roomcheck/internal/models"
)

// FormatReport renders one report as markdown: a summary line followed by
// tables of errors, warnings, crisis flags and repair changes. Empty
// sections are omitted.
func FormatReport(id string, r models.Report) string {
	var sb strings.Builder

	status := "valid"
	if !r.Valid {
		status = "invalid"
	}

	fmt.Fprintf(&sb, "## %s (%s, %s)\n\n", id, r.Strictness, status)
	fmt.Fprintf(&sb, "errors: %d, warnings: %d, crisis flags: %d, quality: %d/100\n",
		len(r.Errors), len(r.Warnings), len(r.CrisisFlags), r.QualityScore.Overall)

	if len(r.Errors) > 0 {
		rows := make([][]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			rows = append(rows, []string{e.Field, e.Rule, e.Message, e.Actual, e.Expected})
		}

		writeSection(&sb, "Errors", []string{"Field", "Rule", "Message", "Actual", "Expected"}, rows)
	}

	if len(r.Warnings) > 0 {
		rows := make([][]string, 0, len(r.Warnings))
		for _, w := range r.Warnings {
			rows = append(rows, []string{w.Field, w.Rule, w.Message, w.Suggestion})
		}

		writeSection(&sb, "Warnings", []string{"Field", "Rule", "Message", "Suggestion"}, rows)
	}

	if len(r.CrisisFlags) > 0 {
		rows := make([][]string, 0, len(r.CrisisFlags))
		for _, f := range r.CrisisFlags {
			rows = append(rows, []string{
				f.Field,
				strconv.Itoa(f.Severity),
				f.Urgency,
				strings.Join(f.Matched, ", "),
				f.SuggestedAction,
			})
		}

		writeSection(&sb, "Crisis flags", []string{"Field", "Severity", "Urgency", "Matched", "Action"}, rows)
	}

	if len(r.Changes) > 0 {
		rows := make([][]string, 0, len(r.Changes))
		for i, c := range r.Changes {
			rows = append(rows, []string{strconv.Itoa(i + 1), c})
		}

		writeSection(&sb, "Auto-repair", []string{"#", "Change"}, rows)
	}

	return sb.String()
}

// FormatSummary renders one row per report, for batch runs.
func FormatSummary(ids []string, reports []models.Report) string {
	rows := make([][]string, 0, len(reports))

	for i, r := range reports {
		id := ""
		if i < len(ids) {
			id = ids[i]
		}

		valid := "yes"
		if !r.Valid {
			valid = "no"
		}

		rows = append(rows, []string{
			id,
			valid,
			strconv.Itoa(len(r.Errors)),
			strconv.Itoa(len(r.Warnings)),
			strconv.Itoa(r.MaxCrisisSeverity()),
			strconv.Itoa(r.QualityScore.Overall),
		})
	}

	lines := Table([]string{"Room", "Valid", "Errors", "Warnings", "Crisis", "Quality"}, rows)

	return strings.Join(lines, "\n") + "\n"
}

func writeSection(sb *strings.Builder, title string, header []string, rows [][]string) {
	fmt.Fprintf(sb, "\n### %s\n\n", title)

	for _, line := range Table(header, rows) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
