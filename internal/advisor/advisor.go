// Package advisor runs one planning request end to end: ledger, evaluation,
// schedule, validation and the notes a student should read first.
package advisor

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
	"degree-planner/internal/evaluator"
	"degree-planner/internal/ledger"
	"degree-planner/internal/logger"
	"degree-planner/internal/planner"
	"degree-planner/internal/requirements"
	"degree-planner/internal/validate"
)

// MaxAcceleratedLoad is the heaviest per-term load suggested for finishing early.
const MaxAcceleratedLoad = 16

const (
	lightTermNote   = "%s is under 12 units. Confirm financial aid, housing, or any additional requirements."
	electiveNote    = "Elective placeholders need advisor-approved course selections."
	geNote          = "Verify GE selections satisfy SJSU-approved Area lists and any double-counting rules."
	accelerateNote  = "If you can take %d units per semester, you could finish in %d semesters (instead of %d)."
	unscheduledNote = "%d requirement(s) exceed the per-semester unit cap and were left unscheduled; plan them with an advisor."
)

// Acceleration suggests a heavier load that saves one term.
type Acceleration struct {
	TargetUnits  int `json:"target_units"`
	NewTermCount int `json:"new_term_count"`
}

// Summary is the audit half of a recommendation.
type Summary struct {
	RunID            string             `json:"run_id"`
	Major            string             `json:"major"`
	Fulfilled        []evaluator.Result `json:"fulfilled"`
	Remaining        []evaluator.Result `json:"remaining"`
	UnitsRemaining   float64            `json:"units_remaining"`
	Acceleration     *Acceleration      `json:"acceleration,omitempty"`
	Clarifications   []string           `json:"clarifications,omitempty"`
	Notes            []string           `json:"notes,omitempty"`
	Validation       validate.Report    `json:"-"`
	ValidationReport string             `json:"validation_report"`
}

// Result pairs the audit with the schedule.
type Result struct {
	Summary Summary      `json:"summary"`
	Plan    planner.Plan `json:"plan"`
}

// Advisor answers planning requests against one catalog. It is safe for
// concurrent use once constructed.
type Advisor struct {
	cat  *catalog.Catalog
	reqs *requirements.Cache
	cfg  planner.Config
	log  *logger.Logger
}

func New(cat *catalog.Catalog, cfg planner.Config, log *logger.Logger) *Advisor {
	if log == nil {
		log = logger.Nop()
	}
	return &Advisor{cat: cat, reqs: requirements.NewCache(cat), cfg: cfg, log: log}
}

// Recommend builds the summary and plan for one transcript. An unknown major
// or missing roadmap is the only failure.
func (a *Advisor) Recommend(t ledger.Transcript) (Result, error) {
	reqs, major, err := a.reqs.Get(t.Major)
	if err != nil {
		return Result{}, fmt.Errorf("advisor: %w", err)
	}
	runID := uuid.NewString()
	log := a.log.With("run_id", runID, "major", major.Name)

	rec := ledger.Build(t, a.cat)
	mc := a.cat.MajorCatalog(major.Name)
	analysis := evaluator.New(a.cat, mc).Analyze(reqs, rec)

	cfg := a.cfg.WithUnitsPerTerm(t.UnitsPerSemester)
	plan := planner.New(a.cat, mc, cfg, log).Plan(rec, reqs)

	s := Summary{
		RunID:          runID,
		Major:          major.Name,
		Fulfilled:      analysis.Fulfilled,
		Remaining:      analysis.Remaining,
		UnitsRemaining: unitsRemaining(a.cat, analysis),
	}
	s.Acceleration = accelerate(plan, cfg.UnitsPerTerm)
	s.Clarifications = clarify(plan)
	if s.Acceleration != nil {
		s.Notes = append(s.Notes, fmt.Sprintf(accelerateNote, s.Acceleration.TargetUnits, s.Acceleration.NewTermCount, len(plan.Terms)))
	}
	s.Notes = append(s.Notes, s.Clarifications...)
	if n := len(plan.Unscheduled); n > 0 {
		s.Notes = append(s.Notes, fmt.Sprintf(unscheduledNote, n))
	}

	s.Validation = validate.Validate(validate.Input{
		Catalog:        a.cat,
		Requirements:   reqs,
		Analysis:       analysis,
		Record:         rec,
		Plan:           plan,
		UnitsRemaining: s.UnitsRemaining,
	})
	s.ValidationReport = s.Validation.Text

	log.Info("recommendation built",
		"completed", len(rec.Completed),
		"remaining", len(s.Remaining),
		"units_remaining", s.UnitsRemaining,
		"terms", len(plan.Terms),
		"violations", len(s.Validation.Violations),
	)
	return Result{Summary: s, Plan: plan}, nil
}

// Majors lists every major the catalog can plan for.
func (a *Advisor) Majors() []catalog.Major { return a.cat.Majors() }

// unitsRemaining counts what the planner has to place: remaining requirements
// plus activities, which evaluate as informational.
func unitsRemaining(cat *catalog.Catalog, a evaluator.Analysis) float64 {
	var total float64
	for _, res := range a.Remaining {
		total += evaluator.Units(cat, res.Requirement)
	}
	for _, res := range a.Fulfilled {
		if res.Requirement.Type == domain.TypeActivity {
			total += evaluator.Units(cat, res.Requirement)
		}
	}
	return math.Round(total*10) / 10
}

func accelerate(p planner.Plan, current float64) *Acceleration {
	n := len(p.Terms)
	if n <= 1 {
		return nil
	}
	load := int(math.Ceil(p.TotalUnits() / float64(n-1)))
	if float64(load) <= current || load > MaxAcceleratedLoad {
		return nil
	}
	return &Acceleration{TargetUnits: load, NewTermCount: n - 1}
}

func clarify(p planner.Plan) []string {
	var out []string
	for _, t := range p.Terms {
		if t.TotalUnits < validate.LightLoad {
			out = append(out, fmt.Sprintf(lightTermNote, t.Label))
			break
		}
	}
	var electives, ge bool
	for _, t := range p.Terms {
		for _, e := range t.Entries {
			electives = electives || e.Type == domain.TypeElective
			ge = ge || e.Type == domain.TypeGE
		}
	}
	if electives {
		out = append(out, electiveNote)
	}
	if ge {
		out = append(out, geNote)
	}
	return out
}
