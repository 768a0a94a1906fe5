// Package planner lays out remaining requirements over terms: a greedy,
// single-pass scheduler bounded by a per-term unit cap, prerequisite order and
// the upper-division gate.
package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
	"degree-planner/internal/evaluator"
	"degree-planner/internal/ledger"
	"degree-planner/internal/logger"
)

// ForcedNote marks courses scheduled although their prerequisites could not be
// confirmed from catalog data.
const ForcedNote = "Prerequisite data missing; verify with advisor."

const geTitle = "Select approved GE course"

// Entry is one scheduled item.
type Entry struct {
	Course           string                 `json:"course"`
	Title            string                 `json:"title"`
	Units            float64                `json:"units"`
	Type             domain.RequirementType `json:"type"`
	RequirementID    string                 `json:"requirement_id,omitempty"`
	Alternatives     []string               `json:"alternatives,omitempty"`
	SuggestedCourses []string               `json:"suggested_courses,omitempty"`
	Detail           string                 `json:"detail,omitempty"`
	Note             string                 `json:"note,omitempty"`
}

// Forced reports whether the entry was scheduled without confirmed prerequisites.
func (e Entry) Forced() bool { return e.Note == ForcedNote }

type Term struct {
	Label      string  `json:"term"`
	Entries    []Entry `json:"courses"`
	TotalUnits float64 `json:"total_units"`
}

type Plan struct {
	Terms          []Term  `json:"terms"`
	EstimatedTerms int     `json:"estimated_terms"`
	Unscheduled    []Entry `json:"unscheduled,omitempty"`
}

// TotalUnits sums every scheduled entry.
func (p Plan) TotalUnits() float64 {
	var total float64
	for _, t := range p.Terms {
		for _, e := range t.Entries {
			total += e.Units
		}
	}
	return round1(total)
}

// Planner schedules the requirements of one major.
type Planner struct {
	cat  *catalog.Catalog
	eval *evaluator.Evaluator
	cfg  Config
	log  *logger.Logger
}

// New returns a planner. major may be nil; log may be nil.
func New(cat *catalog.Catalog, major *catalog.MajorCatalog, cfg Config, log *logger.Logger) *Planner {
	if log == nil {
		log = logger.Nop()
	}
	return &Planner{cat: cat, eval: evaluator.New(cat, major), cfg: cfg.withDefaults(), log: log}
}

func (p *Planner) Config() Config { return p.cfg }

// Plan schedules every requirement the ledger does not already discharge.
// It is deterministic for a given ledger and requirement list.
func (p *Planner) Plan(rec *ledger.Record, reqs []domain.Requirement) Plan {
	s := p.newState(rec, reqs)
	var terms []*term
	for guard := s.lastIndex(); s.pending() > 0; s.index++ {
		if s.index > guard {
			s.abandon()
			break
		}
		t := s.newTerm()
		s.fill(t)
		s.forcedFill(t)
		if len(t.entries) == 0 {
			s.deadlock(t)
		}
		if len(t.entries) == 0 {
			continue
		}
		terms = append(terms, t)
		for code := range t.taken {
			s.available[code] = true
		}
	}

	plan := Plan{Terms: s.consolidate(terms), Unscheduled: s.unscheduled}
	plan.EstimatedTerms = int(math.Ceil(s.totalUnits / p.cfg.UnitsPerTerm))
	if len(plan.Terms) > plan.EstimatedTerms {
		plan.EstimatedTerms = len(plan.Terms)
	}
	p.log.Debug("plan built", "terms", len(plan.Terms), "estimated_terms", plan.EstimatedTerms, "unscheduled", len(plan.Unscheduled))
	return plan
}

// item is one pending requirement with its planning unit value.
type item struct {
	seq   int
	req   domain.Requirement
	units float64
	upper bool
}

type term struct {
	entries []Entry
	units   float64
	taken   map[string]bool
}

type state struct {
	p *Planner

	courses    []item
	ge         []item
	electives  []item
	activities []item

	available map[string]bool // completed, in progress, or scheduled in an earlier term
	required  map[string]bool // every code named by a course requirement

	completedUnits float64
	scheduledUnits float64
	totalUnits     float64
	index          int
	unscheduled    []Entry
}

func (p *Planner) newState(rec *ledger.Record, reqs []domain.Requirement) *state {
	s := &state{p: p, available: rec.Available(), required: map[string]bool{}}
	s.completedUnits = rec.CompletedUnits()
	for _, code := range rec.InProgressCodes() {
		if info, ok := p.cat.Course(code); ok {
			s.completedUnits += info.Units
		}
	}

	for seq, req := range reqs {
		if req.Type == domain.TypeCourse {
			for _, code := range req.Codes() {
				s.required[code] = true
			}
		}
		// Activities are informational in the audit but still take a slot.
		if req.Type != domain.TypeActivity && p.eval.Evaluate(req, rec).Status != evaluator.StatusRemaining {
			continue
		}
		it := item{seq: seq, req: req, units: evaluator.Units(p.cat, req)}
		s.totalUnits += it.units
		if it.units > p.cfg.UnitsPerTerm {
			s.unscheduled = append(s.unscheduled, s.entryFor(it, req.Code))
			continue
		}
		switch req.Type {
		case domain.TypeCourse:
			it.upper = p.upperCourse(req)
			s.courses = append(s.courses, it)
		case domain.TypeGE:
			it.upper = upperGE(req)
			s.ge = append(s.ge, it)
		case domain.TypeElective:
			s.electives = append(s.electives, it)
		case domain.TypeActivity:
			s.activities = append(s.activities, it)
		}
	}

	byRoadmap := func(a, b domain.Requirement) bool {
		if a.SortYear() != b.SortYear() {
			return a.SortYear() < b.SortYear()
		}
		if a.TermOrder != b.TermOrder {
			return a.TermOrder < b.TermOrder
		}
		return a.Order < b.Order
	}
	upperLast := func(items []item) {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].upper != items[j].upper {
				return !items[i].upper
			}
			return byRoadmap(items[i].req, items[j].req)
		})
	}
	upperLast(s.courses)
	upperLast(s.ge)
	for _, items := range [][]item{s.electives, s.activities} {
		sort.SliceStable(items, func(i, j int) bool { return byRoadmap(items[i].req, items[j].req) })
	}
	return s
}

func (p *Planner) upperCourse(req domain.Requirement) bool {
	for _, code := range req.Codes() {
		if p.upperCode(code) {
			return true
		}
	}
	return false
}

func (p *Planner) upperCode(code string) bool {
	if info, ok := p.cat.Course(code); ok {
		return domain.IsUpperDivision(info.Code)
	}
	return domain.IsUpperDivision(code)
}

func upperGE(req domain.Requirement) bool {
	name := strings.ToLower(req.DisplayName)
	return strings.Contains(name, "upper division") || strings.Contains(name, "upper-division")
}

func (s *state) pending() int {
	return len(s.courses) + len(s.ge) + len(s.electives) + len(s.activities)
}

// lastIndex bounds the outer loop: every roadmap slot plus one term per item.
func (s *state) lastIndex() int {
	last := 0
	for _, items := range [][]item{s.courses, s.ge, s.electives, s.activities} {
		for _, it := range items {
			if i := it.req.TermIndex(); i > last {
				last = i
			}
		}
	}
	return last + s.pending() + 1
}

// abandon moves whatever is still pending to Unscheduled.
func (s *state) abandon() {
	for _, items := range [][]item{s.courses, s.ge, s.activities, s.electives} {
		for _, it := range items {
			s.unscheduled = append(s.unscheduled, s.entryFor(it, s.nextCode(it, nil)))
		}
	}
	s.p.log.Warn("planner gave up on pending requirements", "count", s.pending())
	s.courses, s.ge, s.electives, s.activities = nil, nil, nil, nil
}

func (s *state) newTerm() *term { return &term{taken: map[string]bool{}} }

func (s *state) cap() float64 { return s.p.cfg.UnitsPerTerm }

func (s *state) full(t *term) bool { return t.units >= s.cap()-s.p.cfg.FillTolerance }

func (s *state) fits(t *term, units float64) bool { return t.units+units <= s.cap() }

func (s *state) place(t *term, e Entry) {
	t.entries = append(t.entries, e)
	t.units += e.Units
	s.scheduledUnits += e.Units
}

// nextCode picks the first code of a course requirement not yet available and
// not already placed in t.
func (s *state) nextCode(it item, t *term) string {
	for _, code := range it.req.Codes() {
		if s.available[code] {
			continue
		}
		if t != nil && t.taken[code] {
			continue
		}
		return code
	}
	return ""
}

func (s *state) courseUnits(it item, code string) float64 {
	if info, ok := s.p.cat.Course(code); ok && info.Units > 0 {
		return info.Units
	}
	return it.units
}

func (s *state) entryFor(it item, code string) Entry {
	req := it.req
	switch req.Type {
	case domain.TypeCourse:
		e := Entry{Course: code, Title: req.DisplayName, Units: it.units, Type: domain.TypeCourse, RequirementID: req.ID}
		if code == "" {
			e.Course = req.DisplayName
		}
		if info, ok := s.p.cat.Course(code); ok {
			e.Course, e.Title = info.Code, info.Name
		}
		for _, alt := range req.Alternatives {
			if alt != code {
				e.Alternatives = append(e.Alternatives, alt)
			}
		}
		return e
	case domain.TypeGE:
		return Entry{Course: req.DisplayName, Title: geTitle, Units: it.units, Type: domain.TypeGE, RequirementID: req.ID,
			SuggestedCourses: s.p.eval.Suggestions(req)}
	case domain.TypeElective:
		return Entry{Course: req.DisplayName, Title: req.DisplayName, Units: it.units, Type: domain.TypeElective, RequirementID: req.ID,
			Detail: evaluator.ElectiveAdvice, SuggestedCourses: s.p.eval.Suggestions(req)}
	default:
		return Entry{Course: req.DisplayName, Title: req.DisplayName, Units: it.units, Type: req.Type, RequirementID: req.ID}
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func label(i int) string { return fmt.Sprintf("Semester %d", i+1) }
