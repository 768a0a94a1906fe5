package advisor

import (
	"fmt"
	"strings"

	"degree-planner/internal/domain"
	"degree-planner/internal/evaluator"
	"degree-planner/internal/planner"
)

const (
	fulfilledSample = 10
	suggestionLimit = 8
)

// Document is the JSON shape of a recommendation.
type Document struct {
	RunID          string             `json:"run_id"`
	Major          string             `json:"major"`
	UnitsRemaining float64            `json:"units_remaining"`
	EstimatedTerms int                `json:"estimated_semesters"`
	Fulfilled      []evaluator.Result `json:"fulfilled_requirements"`
	Remaining      []evaluator.Result `json:"remaining_requirements"`
	Terms          []planner.Term     `json:"semester_plan"`
	Unscheduled    []planner.Entry    `json:"unscheduled,omitempty"`
	Notes          []string           `json:"notes"`
	Validation     string             `json:"validation_report"`
}

func (r Result) Document() Document {
	notes := r.Summary.Notes
	if notes == nil {
		notes = []string{}
	}
	return Document{
		RunID:          r.Summary.RunID,
		Major:          r.Summary.Major,
		UnitsRemaining: r.Summary.UnitsRemaining,
		EstimatedTerms: r.Plan.EstimatedTerms,
		Fulfilled:      r.Summary.Fulfilled,
		Remaining:      r.Summary.Remaining,
		Terms:          r.Plan.Terms,
		Unscheduled:    r.Plan.Unscheduled,
		Notes:          notes,
		Validation:     r.Summary.ValidationReport,
	}
}

// Render formats the recommendation as the plain-text progress overview.
func Render(r Result) string {
	var lines []string
	add := func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }

	add("================ Degree Progress Overview ================")
	if r.Summary.Major != "" {
		add("Major: %s", r.Summary.Major)
	}
	add("Units remaining: %s", domain.FormatUnits(r.Summary.UnitsRemaining))
	add("Estimated semesters: %d", r.Plan.EstimatedTerms)
	add("")

	var fulfilled []evaluator.Result
	for _, res := range r.Summary.Fulfilled {
		if res.Status == evaluator.StatusFulfilled {
			fulfilled = append(fulfilled, res)
		}
	}
	if len(fulfilled) > 0 {
		add("Fulfilled requirements (sample):")
		for i, res := range fulfilled {
			if i == fulfilledSample {
				add("  …and %d more", len(fulfilled)-fulfilledSample)
				break
			}
			lines = append(lines, requirementLine(res))
		}
		add("")
	}

	if len(r.Summary.Remaining) > 0 {
		add("Remaining requirements:")
		groups := []struct {
			title string
			match func(domain.RequirementType) bool
		}{
			{"Courses:", func(t domain.RequirementType) bool { return t == domain.TypeCourse }},
			{"GE / AI:", func(t domain.RequirementType) bool { return t == domain.TypeGE }},
			{"Electives / Other Guided:", func(t domain.RequirementType) bool { return t == domain.TypeElective }},
			{"Other:", func(t domain.RequirementType) bool {
				return t != domain.TypeCourse && t != domain.TypeGE && t != domain.TypeElective
			}},
		}
		for _, g := range groups {
			var block []string
			for _, res := range r.Summary.Remaining {
				if g.match(res.Requirement.Type) {
					block = append(block, "  "+requirementLine(res))
				}
			}
			if len(block) > 0 {
				add("  %s", g.title)
				lines = append(lines, block...)
			}
		}
		add("")
	}

	if len(r.Plan.Terms) > 0 {
		add("Semester-by-semester plan:")
		for _, t := range r.Plan.Terms {
			add("%s - %s units", t.Label, domain.FormatUnits(t.TotalUnits))
			for _, e := range t.Entries {
				lines = append(lines, entryLines(e)...)
			}
			add("")
		}
	}

	if len(r.Plan.Unscheduled) > 0 {
		add("Not scheduled:")
		for _, e := range r.Plan.Unscheduled {
			lines = append(lines, entryLines(e)...)
		}
		add("")
	}

	if len(r.Summary.Notes) > 0 {
		add("Notes:")
		for _, n := range r.Summary.Notes {
			add("- %s", n)
		}
		add("")
	}
	return strings.Join(lines, "\n")
}

func entryLines(e planner.Entry) []string {
	line := fmt.Sprintf("  • %s (%s units)", e.Course, domain.FormatUnits(e.Units))
	if e.Title != "" && e.Title != e.Course {
		line += " - " + e.Title
	}
	out := []string{line}
	if len(e.Alternatives) > 0 {
		out = append(out, "      Alternatives: "+strings.Join(e.Alternatives, ", "))
	}
	if len(e.SuggestedCourses) > 0 {
		out = append(out, "      Suggested: "+suggestions(e.SuggestedCourses))
	}
	if e.Note != "" {
		out = append(out, "      Note: "+e.Note)
	}
	return out
}

func requirementLine(res evaluator.Result) string {
	req := res.Requirement
	title := req.DisplayName
	if title == "" {
		title = req.ID
	}
	units := "-"
	if res.Units > 0 {
		units = domain.FormatUnits(res.Units)
	}
	parts := []string{fmt.Sprintf("• %s (%s units)", title, units)}
	detail := res.Title
	if detail == "" {
		detail = res.Detail
	}
	if detail != "" {
		parts = append(parts, "  "+detail)
	}
	if res.Source != "" {
		parts = append(parts, "  Source: "+res.Source)
	}
	if len(res.Prerequisites) > 0 {
		parts = append(parts, "  Prereqs: "+strings.Join(res.Prerequisites, "; then "))
	}
	if len(res.SuggestedCourses) > 0 {
		parts = append(parts, "  Suggested: "+suggestions(res.SuggestedCourses))
	}
	if len(res.Alternatives) > 0 {
		parts = append(parts, "  Alternatives: "+strings.Join(res.Alternatives, ", "))
	}
	return strings.Join(parts, "\n")
}

func suggestions(courses []string) string {
	var cleaned []string
	for _, c := range courses {
		if c = strings.TrimLeft(c, "|&"); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return "-"
	}
	if len(cleaned) > suggestionLimit {
		return strings.Join(cleaned[:suggestionLimit], ", ") + ", …"
	}
	return strings.Join(cleaned, ", ")
}
