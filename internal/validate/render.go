package validate

import (
	"fmt"
	"strings"

	"degree-planner/internal/domain"
)

const (
	rule          = "============================================================"
	maxViolations = 10
)

func mark(ok bool, bad string) string {
	if ok {
		return "✓"
	}
	return bad
}

func render(r Report) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s", rule)
	line("VALIDATION CHECKLIST")
	line("%s", rule)
	line("")
	line("Legend:")
	line("  [AP/CC/SJSU] = Already completed")
	line("  [Planned] = Scheduled in future semesters")
	line("")

	line("\n1. Required Courses Coverage:")
	for _, c := range r.Coverage {
		switch c.Status {
		case CoverageFulfilled:
			line("   ✓ %s - %s [%s]", c.Code, c.Title, c.Source)
		case CoveragePlanned:
			line("   ✓ %s - %s [Planned]", c.Code, c.Title)
		default:
			line("   ✗ %s - %s", c.Code, c.Title)
		}
	}
	if r.Missing == 0 {
		line("   ✓ All required courses are scheduled")
	} else {
		line("   ⚠ %d required course(s) missing from plan", r.Missing)
	}

	line("\n2. Semester Unit Loads:")
	for _, l := range r.Loads {
		ok := l.Units >= LightLoad && l.Units <= HeavyLoad
		line("   %s %s: %s units", mark(ok, "⚠"), l.Term, domain.FormatUnits(l.Units))
	}
	if len(r.Light) > 0 {
		line("   ⚠ %d semester(s) under 12 units (may affect financial aid)", len(r.Light))
	}
	if len(r.Heavy) > 0 {
		line("   ⚠ %d semester(s) over 18 units (may need approval)", len(r.Heavy))
	}

	line("\n3. Prerequisite Warnings:")
	for _, f := range r.Flagged {
		line("   ⚠ %s: %s - %s", f.Term, f.Course, f.Note)
	}
	for i, v := range r.Violations {
		if i == maxViolations {
			break
		}
		line("   ✗ %s: %s (%s)", v.Term, v.Course, v.Title)
		line("      Missing: %s", strings.Join(v.Missing, ", "))
	}
	switch {
	case len(r.Violations) > 0:
		line("   ✗ %d unexpected prerequisite violation(s) found", len(r.Violations))
	case len(r.Flagged) == 0:
		line("   ✓ No prerequisite violations detected")
	}

	line("\n4. Unit Calculations:")
	m := mark(r.Units.Match, "✗")
	line("   %s Planned units: %s", m, domain.FormatUnits(r.Units.Planned))
	line("   %s Expected units: %s", m, domain.FormatUnits(r.Units.Expected))
	if !r.Units.Match {
		line("   ✗ Difference: %s units", domain.FormatUnits(r.Units.Difference))
	}

	line("\n5. Duplicate Course Check:")
	for _, d := range r.Duplicates {
		line("   ✗ %s scheduled %d times", d.Course, d.Count)
	}
	if len(r.Duplicates) == 0 {
		line("   ✓ No duplicate courses found")
	}

	line("\n6. GE Requirements:")
	line("   • Total GE requirements: %d", r.GE.Total)
	line("   • Fulfilled: %d", r.GE.Fulfilled)
	line("   • Scheduled: %d", r.GE.Scheduled)
	line("   • Remaining: %d", r.GE.Remaining)
	line("   %s GE coverage: %d/%d", mark(r.GE.Remaining == r.GE.Scheduled, "⚠"), r.GE.Fulfilled+r.GE.Scheduled, r.GE.Total)

	line("\n7. Elective Requirements:")
	line("   • Total elective requirements: %d", r.Electives.Total)
	line("   • Scheduled: %d", r.Electives.Scheduled)
	line("   %s Elective coverage: %d/%d", mark(r.Electives.Scheduled == r.Electives.Total, "⚠"), r.Electives.Scheduled, r.Electives.Total)

	line("\n%s", rule)
	line("RECOMMENDATION:")
	if r.OK() {
		line("✓ Plan looks good! Review with your academic advisor.")
	} else {
		line("⚠ Plan has some issues. Please review carefully with advisor.")
		line("  - Pay special attention to prerequisite warnings")
		line("  - Verify all required courses are included")
		line("  - Confirm elective selections with your department")
	}
	b.WriteString(rule)
	return b.String()
}
