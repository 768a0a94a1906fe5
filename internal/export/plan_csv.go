package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"degree-planner/internal/advisor"
	"degree-planner/internal/planner"
)

// UnscheduledTerm is the TERM value of rows the planner could not place.
const UnscheduledTerm = "UNSCHEDULED"

// Keep header order EXACT; spreadsheets downstream address columns by position.
var planHeader = []string{
	"RUN_ID",
	"MAJOR",
	"TERM",
	"COURSE",
	"TITLE",
	"UNITS",
	"TYPE",
	"REQUIREMENT_ID",
	"ALTERNATIVES",
	"SUGGESTED_COURSES",
	"NOTE",
}

// WritePlanCSV writes one row per planned entry, terms in order, followed by
// unscheduled entries.
func WritePlanCSV(w io.Writer, r advisor.Result) error {
	cw := csv.NewWriter(w)
	// match typical templates
	cw.UseCRLF = true

	if err := cw.Write(planHeader); err != nil {
		return err
	}

	for _, t := range r.Plan.Terms {
		for _, e := range t.Entries {
			if err := cw.Write(toPlanRow(r.Summary, t.Label, e)); err != nil {
				return err
			}
		}
	}
	for _, e := range r.Plan.Unscheduled {
		if err := cw.Write(toPlanRow(r.Summary, UnscheduledTerm, e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toPlanRow(s advisor.Summary, term string, e planner.Entry) []string {
	note := e.Note
	if note == "" {
		note = e.Detail
	}
	alternatives := strings.Join(cleanStrings(e.Alternatives), " | ")
	suggested := strings.Join(cleanStrings(e.SuggestedCourses), " | ")

	return []string{
		s.RunID,                // RUN_ID
		s.Major,                // MAJOR
		term,                   // TERM
		e.Course,               // COURSE
		e.Title,                // TITLE
		floatToString(e.Units), // UNITS
		string(e.Type),         // TYPE
		e.RequirementID,        // REQUIREMENT_ID
		alternatives,           // ALTERNATIVES
		suggested,              // SUGGESTED_COURSES
		note,                   // NOTE
	}
}

func floatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cleanStrings drops blanks and the "||"/"&&" connector prefixes of suggested
// course lists, and flattens newlines.
func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(strings.TrimLeft(s, "|&"))
		if s == "" {
			continue
		}
		s = strings.ReplaceAll(s, "\n", " ")
		s = strings.ReplaceAll(s, "\r", " ")
		out = append(out, s)
	}
	return out
}
