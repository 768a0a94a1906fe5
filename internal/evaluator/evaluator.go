// Package evaluator decides, per requirement, whether a student's ledger already
// discharges it.
package evaluator

import (
	"sort"
	"strings"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
	"degree-planner/internal/ledger"
)

// Status is the terminal state of one requirement.
type Status string

const (
	StatusFulfilled     Status = "fulfilled"
	StatusInProgress    Status = "in_progress"
	StatusRemaining     Status = "remaining"
	StatusInformational Status = "informational"
)

const (
	ElectiveAdvice  = "Work with advisor to choose an appropriate elective."
	milestoneAdvice = "Check with major advisor for milestone completion."
)

// Result is the evaluation of one requirement.
type Result struct {
	Requirement      domain.Requirement `json:"requirement"`
	Status           Status             `json:"status"`
	Units            float64            `json:"units"`
	Source           string             `json:"source,omitempty"`
	Detail           string             `json:"detail,omitempty"`
	Title            string             `json:"title,omitempty"`
	SatisfiedBy      string             `json:"satisfied_by,omitempty"`
	SelectedCourse   string             `json:"selected_course,omitempty"`
	PreferredCourse  string             `json:"preferred_course,omitempty"`
	Alternatives     []string           `json:"alternatives,omitempty"`
	Prerequisites    []string           `json:"prerequisites,omitempty"`
	SuggestedCourses []string           `json:"suggested_courses,omitempty"`
}

// Analysis splits results the way reports present them: everything that needs
// no further planning (fulfilled, in progress, informational) and the rest.
type Analysis struct {
	Fulfilled []Result `json:"fulfilled"`
	Remaining []Result `json:"remaining"`
}

// Evaluator evaluates requirements of one major against ledgers.
type Evaluator struct {
	cat   *catalog.Catalog
	major *catalog.MajorCatalog
}

// New returns an evaluator. major may be nil when the major has no
// supplementary catalog.
func New(cat *catalog.Catalog, major *catalog.MajorCatalog) *Evaluator {
	return &Evaluator{cat: cat, major: major}
}

// Analyze evaluates every requirement in order.
func (e *Evaluator) Analyze(reqs []domain.Requirement, rec *ledger.Record) Analysis {
	var a Analysis
	for _, req := range reqs {
		res := e.Evaluate(req, rec)
		if res.Status == StatusRemaining {
			a.Remaining = append(a.Remaining, res)
		} else {
			a.Fulfilled = append(a.Fulfilled, res)
		}
	}
	return a
}

// Evaluate runs the state machine for one requirement.
func (e *Evaluator) Evaluate(req domain.Requirement, rec *ledger.Record) Result {
	res := Result{Requirement: req, Status: StatusRemaining, Units: req.Units}
	switch req.Type {
	case domain.TypeCourse:
		e.evaluateCourse(&res, rec)
	case domain.TypeGE:
		e.evaluateGE(&res, rec)
	case domain.TypeElective:
		res.Detail = ElectiveAdvice
		res.SuggestedCourses = e.Suggestions(req)
	case domain.TypeActivity:
		res.Status = StatusInformational
		res.Detail = req.DisplayName
	default:
		res.Status = StatusInformational
		res.Detail = milestoneAdvice
	}
	return res
}

func (e *Evaluator) displayCode(code string) string {
	if info, ok := e.cat.Course(code); ok {
		return info.Code
	}
	return code
}

func (e *Evaluator) displayCodes(codes []string, skip string) []string {
	var out []string
	for _, c := range codes {
		if c != skip {
			out = append(out, e.displayCode(c))
		}
	}
	return out
}

func (e *Evaluator) evaluateCourse(res *Result, rec *ledger.Record) {
	req := res.Requirement
	codes := req.Codes()

	for _, code := range codes {
		if c, ok := rec.Completion(code); ok {
			res.Status = StatusFulfilled
			res.Source = string(c.Source)
			res.Detail = c.Detail
			res.Title = c.Title
			res.Units = domain.UnitsOr(c.Units, req.Units)
			res.SatisfiedBy = e.displayCode(code)
			res.Alternatives = e.displayCodes(req.Alternatives, "")
			return
		}
	}

	for _, code := range codes {
		if !rec.IsInProgress(code) {
			continue
		}
		res.Status = StatusInProgress
		res.Detail = "Currently in progress"
		res.Title = req.DisplayName
		if info, ok := e.cat.Course(code); ok {
			res.Title = info.Name
		}
		res.SelectedCourse = e.displayCode(code)
		res.Alternatives = e.displayCodes(req.Alternatives, code)
		return
	}

	for _, code := range codes {
		info, ok := e.cat.Course(code)
		if !ok {
			continue
		}
		res.Title = info.Name
		res.Units = domain.UnitsOr(info.Units, req.Units)
		res.Prerequisites = info.Prerequisites.Describe()
		if len(codes) > 1 {
			res.PreferredCourse = info.Code
		}
		break
	}
	res.Alternatives = e.displayCodes(req.Alternatives, "")
}

// evaluateGE requires every GE tag. Institutional tags are all-or-any: display
// text containing the word "or" means one satisfied tag is enough.
func (e *Evaluator) evaluateGE(res *Result, rec *ledger.Record) {
	req := res.Requirement
	sources := map[string]bool{}

	geOK := true
	for _, tag := range req.GEAreas {
		src, ok := rec.GE[tag]
		if !ok {
			geOK = false
			continue
		}
		sources[string(src)] = true
	}

	instOK := true
	if len(req.InstitutionalAreas) > 0 {
		satisfied := 0
		for _, tag := range req.InstitutionalAreas {
			if src, ok := rec.Institutional[tag]; ok {
				satisfied++
				sources[string(src)] = true
			}
		}
		if anyMode(req.DisplayName) {
			instOK = satisfied > 0
		} else {
			instOK = satisfied == len(req.InstitutionalAreas)
		}
	}

	if geOK && instOK {
		res.Status = StatusFulfilled
		res.Source = joinSorted(sources)
		res.Detail = "Requirement satisfied"
		return
	}

	res.SuggestedCourses = e.Suggestions(req)
	res.Units = Units(e.cat, req)
}

// Suggestions lists courses that could discharge a GE or elective requirement:
// major-specific courses first, then the GE catalog's list for the first area.
func (e *Evaluator) Suggestions(req domain.Requirement) []string {
	if courses := Suggest(e.major, req.DisplayName); len(courses) > 0 {
		return courses
	}
	if req.Type == domain.TypeGE && len(req.GEAreas) > 0 {
		if area, ok := e.cat.GEArea(req.GEAreas[0]); ok {
			return area.Courses
		}
	}
	return nil
}

func anyMode(display string) bool {
	for _, w := range strings.Fields(strings.ToLower(display)) {
		if w == "or" {
			return true
		}
	}
	return false
}

func joinSorted(set map[string]bool) string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// Units is the unit value used when planning a requirement: catalog units for
// courses (primary first, then alternatives), GE catalog units for GE areas,
// the roadmap value, and finally the default.
func Units(cat *catalog.Catalog, req domain.Requirement) float64 {
	switch req.Type {
	case domain.TypeCourse:
		for _, code := range req.Codes() {
			if info, ok := cat.Course(code); ok && info.Units > 0 {
				return info.Units
			}
		}
	case domain.TypeGE:
		if len(req.GEAreas) > 0 {
			if area, ok := cat.GEArea(req.GEAreas[0]); ok && area.Units > 0 {
				return area.Units
			}
		}
	}
	return domain.UnitsOr(req.Units, domain.DefaultUnits)
}
