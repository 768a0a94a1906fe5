// Package validate replays a finished plan and reports what a reviewer should
// look at: prerequisite order, unit totals, duplicates and coverage.
package validate

import (
	"math"
	"strings"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
	"degree-planner/internal/evaluator"
	"degree-planner/internal/ledger"
	"degree-planner/internal/planner"
)

const (
	LightLoad     = 12.0
	HeavyLoad     = 18.0
	unitTolerance = 0.1
)

// Input is everything one validation run reads. Record is optional; when set
// its completions and in-progress courses seed the known set.
type Input struct {
	Catalog        *catalog.Catalog
	Requirements   []domain.Requirement
	Analysis       evaluator.Analysis
	Record         *ledger.Record
	Plan           planner.Plan
	UnitsRemaining float64
}

// Violation is a planned course whose prerequisites are not met by earlier
// or same-term work.
type Violation struct {
	Term    string   `json:"semester"`
	Course  string   `json:"course"`
	Title   string   `json:"title"`
	Missing []string `json:"missing_prereqs"`
}

// Flag is a course the planner placed with an advisor note.
type Flag struct {
	Term   string `json:"semester"`
	Course string `json:"course"`
	Note   string `json:"note"`
}

type UnitCheck struct {
	Planned    float64 `json:"planned_units"`
	Expected   float64 `json:"expected_units"`
	Match      bool    `json:"match"`
	Difference float64 `json:"difference"`
}

type CoverageStatus string

const (
	CoverageFulfilled CoverageStatus = "fulfilled"
	CoveragePlanned   CoverageStatus = "planned"
	CoverageMissing   CoverageStatus = "missing"
)

// Coverage is the state of one required course.
type Coverage struct {
	Code   string         `json:"course"`
	Title  string         `json:"title"`
	Status CoverageStatus `json:"status"`
	Source string         `json:"source,omitempty"`
}

type Load struct {
	Term  string  `json:"semester"`
	Units float64 `json:"units"`
}

type Duplicate struct {
	Course string `json:"course"`
	Count  int    `json:"count"`
}

type GECount struct {
	Total     int `json:"total"`
	Fulfilled int `json:"fulfilled"`
	Scheduled int `json:"scheduled"`
	Remaining int `json:"remaining"`
}

type ElectiveCount struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
}

// Report is the outcome of Validate. Text is the formatted checklist.
type Report struct {
	Violations []Violation   `json:"violations,omitempty"`
	Flagged    []Flag        `json:"flagged,omitempty"`
	Units      UnitCheck     `json:"units"`
	Duplicates []Duplicate   `json:"duplicates,omitempty"`
	Coverage   []Coverage    `json:"coverage"`
	Missing    int           `json:"missing_courses"`
	Loads      []Load        `json:"loads"`
	Light      []Load        `json:"light_terms,omitempty"`
	Heavy      []Load        `json:"heavy_terms,omitempty"`
	GE         GECount       `json:"ge"`
	Electives  ElectiveCount `json:"electives"`
	Text       string        `json:"text"`
}

// OK reports whether nothing needs a second look beyond annotated courses.
func (r Report) OK() bool {
	return len(r.Violations) == 0 && r.Missing == 0 && r.Units.Match && len(r.Duplicates) == 0
}

// Validate checks in.Plan. It never modifies the plan.
func Validate(in Input) Report {
	var r Report
	r.Violations, r.Flagged = checkPrerequisites(in)
	r.Units = checkUnits(in.Plan, in.UnitsRemaining)
	r.Duplicates = duplicates(in.Plan)
	r.Coverage, r.Missing = coverage(in)
	for _, t := range in.Plan.Terms {
		l := Load{Term: t.Label, Units: t.TotalUnits}
		r.Loads = append(r.Loads, l)
		switch {
		case t.TotalUnits < LightLoad:
			r.Light = append(r.Light, l)
		case t.TotalUnits > HeavyLoad:
			r.Heavy = append(r.Heavy, l)
		}
	}
	r.GE, r.Electives = counts(in)
	r.Text = render(r)
	return r
}

// known seeds the replay with everything the student already holds.
func known(in Input) map[string]bool {
	set := map[string]bool{}
	if in.Record != nil {
		for code := range in.Record.Available() {
			set[code] = true
		}
	}
	for _, res := range in.Analysis.Fulfilled {
		if res.Requirement.Type != domain.TypeCourse {
			continue
		}
		if res.Status != evaluator.StatusFulfilled && res.Status != evaluator.StatusInProgress {
			continue
		}
		for _, code := range []string{res.Requirement.Code, res.SatisfiedBy, res.SelectedCourse} {
			if code != "" {
				set[domain.NormalizeCode(code)] = true
			}
		}
	}
	return set
}

// checkPrerequisites replays the plan term by term. A term's own courses count
// as known when it is checked, so corequisite-style pairings are not flagged.
func checkPrerequisites(in Input) ([]Violation, []Flag) {
	var violations []Violation
	var flags []Flag
	set := known(in)
	has := func(code string) bool { return set[domain.NormalizeCode(code)] }

	for _, t := range in.Plan.Terms {
		for _, e := range t.Entries {
			if e.Type == domain.TypeCourse {
				set[domain.NormalizeCode(e.Course)] = true
			}
		}
		for _, e := range t.Entries {
			if e.Forced() {
				flags = append(flags, Flag{Term: t.Label, Course: e.Course, Note: e.Note})
			}
			if e.Type != domain.TypeCourse || e.Note != "" {
				continue
			}
			info, ok := in.Catalog.Course(e.Course)
			if !ok {
				continue
			}
			for _, g := range info.Prerequisites {
				unmet := g.Unmet(has)
				if len(unmet) == 0 {
					continue
				}
				v := Violation{Term: t.Label, Course: e.Course, Title: info.Name}
				for _, opt := range unmet {
					v.Missing = append(v.Missing, strings.Join(opt, " or "))
				}
				violations = append(violations, v)
			}
		}
	}
	return violations, flags
}

func checkUnits(p planner.Plan, expected float64) UnitCheck {
	var planned float64
	for _, t := range p.Terms {
		planned += t.TotalUnits
	}
	planned = round1(planned)
	diff := planned - expected
	return UnitCheck{
		Planned:    planned,
		Expected:   expected,
		Match:      math.Abs(diff) < unitTolerance,
		Difference: round1(diff),
	}
}

func duplicates(p planner.Plan) []Duplicate {
	counts := map[string]int{}
	var order []string
	for _, t := range p.Terms {
		for _, e := range t.Entries {
			if e.Type != domain.TypeCourse {
				continue
			}
			code := domain.NormalizeCode(e.Course)
			if counts[code] == 0 {
				order = append(order, code)
			}
			counts[code]++
		}
	}
	var out []Duplicate
	for _, code := range order {
		if counts[code] > 1 {
			out = append(out, Duplicate{Course: code, Count: counts[code]})
		}
	}
	return out
}

func coverage(in Input) ([]Coverage, int) {
	sources := map[string]string{}
	for _, res := range in.Analysis.Fulfilled {
		if res.Requirement.Type != domain.TypeCourse {
			continue
		}
		source := res.Source
		if res.Status == evaluator.StatusInProgress {
			source = "In Progress"
		}
		if source == "" {
			source = "Fulfilled"
		}
		for _, code := range res.Requirement.Codes() {
			if _, ok := sources[code]; !ok {
				sources[code] = source
			}
		}
	}
	scheduled := map[string]bool{}
	for _, t := range in.Plan.Terms {
		for _, e := range t.Entries {
			if e.Type == domain.TypeCourse {
				scheduled[domain.NormalizeCode(e.Course)] = true
			}
		}
	}

	var out []Coverage
	missing := 0
	for _, req := range in.Requirements {
		if req.Type != domain.TypeCourse {
			continue
		}
		c := Coverage{Code: req.Code, Title: req.DisplayName, Status: CoverageMissing}
		if info, ok := in.Catalog.Course(req.Code); ok {
			c.Code, c.Title = info.Code, info.Name
		}
		for _, code := range req.Codes() {
			if src, ok := sources[code]; ok {
				c.Status, c.Source = CoverageFulfilled, src
				break
			}
		}
		if c.Status == CoverageMissing {
			for _, code := range req.Codes() {
				if scheduled[code] {
					c.Status = CoveragePlanned
					break
				}
			}
		}
		if c.Status == CoverageMissing {
			missing++
		}
		out = append(out, c)
	}
	return out, missing
}

func counts(in Input) (GECount, ElectiveCount) {
	var ge GECount
	var el ElectiveCount
	for _, req := range in.Requirements {
		switch req.Type {
		case domain.TypeGE:
			ge.Total++
		case domain.TypeElective:
			el.Total++
		}
	}
	for _, res := range in.Analysis.Fulfilled {
		if res.Requirement.Type == domain.TypeGE {
			ge.Fulfilled++
		}
	}
	for _, res := range in.Analysis.Remaining {
		if res.Requirement.Type == domain.TypeGE {
			ge.Remaining++
		}
	}
	for _, t := range in.Plan.Terms {
		for _, e := range t.Entries {
			switch e.Type {
			case domain.TypeGE:
				ge.Scheduled++
			case domain.TypeElective:
				el.Scheduled++
			}
		}
	}
	return ge, el
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
