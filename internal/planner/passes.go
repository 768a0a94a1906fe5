package planner

import (
	"math"

	"degree-planner/internal/domain"
)

// fill repeats the five placement steps until none of them adds anything or
// the term is full.
func (s *state) fill(t *term) {
	for progress := true; progress && !s.full(t); {
		progress = false
		if s.fillGE(t, false) {
			progress = true
		}
		if s.fillCourses(t) {
			progress = true
		}
		if s.completedUnits+s.scheduledUnits >= s.p.cfg.UpperDivisionUnits && s.fillGE(t, true) {
			progress = true
		}
		if s.fillActivities(t) {
			progress = true
		}
		if s.fillElectives(t) {
			progress = true
		}
	}
}

func (s *state) fillGE(t *term, upper bool) bool {
	placed := false
	for _, it := range snapshot(s.ge) {
		if s.full(t) {
			break
		}
		if it.upper != upper || !s.canTake(it) || !s.fits(t, it.units) {
			continue
		}
		s.ge = remove(s.ge, it.seq)
		s.place(t, s.entryFor(it, ""))
		placed = true
	}
	return placed
}

func (s *state) fillCourses(t *term) bool {
	placed := false
	for _, it := range snapshot(s.courses) {
		if s.satisfied(it, t) {
			s.courses = remove(s.courses, it.seq)
			continue
		}
		if s.full(t) {
			break
		}
		if !s.canTake(it) {
			continue
		}
		code := s.nextCode(it, t)
		if code == "" || !s.prereqsMet(code) || !s.gateOpen(code) {
			continue
		}
		units := s.courseUnits(it, code)
		if !s.fits(t, units) {
			continue
		}
		s.courses = remove(s.courses, it.seq)
		s.placeCourse(t, it, code, units, "")
		placed = true
	}
	return placed
}

func (s *state) fillActivities(t *term) bool {
	placed := false
	for _, it := range snapshot(s.activities) {
		if s.full(t) {
			break
		}
		if !s.canTake(it) || !s.fits(t, it.units) {
			continue
		}
		s.activities = remove(s.activities, it.seq)
		s.place(t, s.entryFor(it, ""))
		placed = true
	}
	return placed
}

func (s *state) fillElectives(t *term) bool {
	target := s.electiveTarget(t)
	placed := false
	for _, it := range snapshot(s.electives) {
		if t.units >= target-s.p.cfg.FillTolerance {
			break
		}
		if !s.canTake(it) || t.units+it.units > target {
			continue
		}
		s.electives = remove(s.electives, it.seq)
		s.place(t, s.entryFor(it, ""))
		placed = true
	}
	return placed
}

// electiveTarget spreads the remaining elective units evenly over the terms
// still needed, and holds back headroom for prerequisite-blocked courses.
func (s *state) electiveTarget(t *term) float64 {
	cfg := s.p.cfg
	target := cfg.UnitsPerTerm

	electives := sumUnits(s.electives)
	total := electives + sumUnits(s.courses) + sumUnits(s.ge) + sumUnits(s.activities)
	if total > 0 && electives > 0 {
		ahead := math.Max(1, math.Ceil(total/cfg.UnitsPerTerm))
		thisTerm := math.Min(electives, math.Max(electives/ahead, cfg.ElectiveFloor))
		target = math.Min(cfg.UnitsPerTerm, t.units+thisTerm)
	}
	if blocked := s.blocked(); blocked > 0 {
		reserve := math.Min(float64(blocked)*cfg.ReservePerBlocked, cfg.ReserveCap)
		target = math.Min(target, math.Max(cfg.ReserveFloorLoad, cfg.UnitsPerTerm-reserve))
	}
	return target
}

// forcedFill uses leftover room for courses whose prerequisites cannot be
// satisfied from the data at hand. Courses merely waiting on a pending
// prerequisite stay queued.
func (s *state) forcedFill(t *term) {
	if len(t.entries) == 0 || s.full(t) || len(s.courses) == 0 {
		return
	}
	for i := len(s.courses) - 1; i >= 0; i-- {
		if s.full(t) {
			break
		}
		it := s.courses[i]
		if !s.canTake(it) {
			continue
		}
		code := s.nextCode(it, t)
		if code == "" || s.prereqsMet(code) || s.satisfiable(code, t) || !s.gateOpen(code) {
			continue
		}
		units := s.courseUnits(it, code)
		if !s.fits(t, units) {
			continue
		}
		s.courses = remove(s.courses, it.seq)
		s.placeCourse(t, it, code, units, ForcedNote)
		s.p.log.Debug("forced course placement", "course", code, "term", label(s.index))
	}
}

// deadlock runs only on a term nothing else could fill: it drains each queue
// from the front, ignoring prerequisites, so the outer loop keeps shrinking.
func (s *state) deadlock(t *term) {
	for len(s.courses) > 0 && !s.full(t) {
		it := s.courses[0]
		if s.satisfied(it, t) {
			s.courses = s.courses[1:]
			continue
		}
		if !s.canTake(it) {
			break
		}
		code := s.nextCode(it, t)
		if !s.gateOpen(code) {
			break
		}
		units := s.courseUnits(it, code)
		if !s.fits(t, units) {
			break
		}
		s.courses = s.courses[1:]
		note := ""
		if !s.prereqsMet(code) {
			note = ForcedNote
		}
		s.placeCourse(t, it, code, units, note)
		s.p.log.Debug("deadlock course placement", "course", code, "term", label(s.index))
	}
	s.ge = s.drain(t, s.ge)
	s.activities = s.drain(t, s.activities)
	s.electives = s.drain(t, s.electives)
}

func (s *state) drain(t *term, items []item) []item {
	for len(items) > 0 && !s.full(t) {
		it := items[0]
		if !s.canTake(it) || !s.fits(t, it.units) {
			break
		}
		items = items[1:]
		s.place(t, s.entryFor(it, ""))
	}
	return items
}

func (s *state) placeCourse(t *term, it item, code string, units float64, note string) {
	e := s.entryFor(it, code)
	e.Units = units
	e.Note = note
	t.taken[code] = true
	s.place(t, e)
}

// consolidate moves the contents of light trailing terms into the earliest
// earlier term with room that still follows every prerequisite of the entry.
func (s *state) consolidate(terms []*term) []Term {
	cfg := s.p.cfg
	floor := math.Min(cfg.LightLoadUnits, cfg.UnitsPerTerm*cfg.LightLoadRatio)
	for i := len(terms) - 1; i > 0; i-- {
		cur := terms[i]
		if round1(cur.units) >= floor {
			continue
		}
		moving := cur.entries
		cur.entries, cur.units = nil, 0
		for _, e := range moving {
			dest := cur
			for j := s.earliestSlot(terms, e); j < i; j++ {
				if round1(terms[j].units+e.Units) <= cfg.UnitsPerTerm {
					dest = terms[j]
					break
				}
			}
			dest.entries = append(dest.entries, e)
			dest.units += e.Units
		}
	}

	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if len(t.entries) == 0 {
			continue
		}
		out = append(out, Term{Label: label(len(out)), Entries: t.entries, TotalUnits: round1(t.units)})
	}
	return out
}

// earliestSlot is the first term index after the last term holding any
// prerequisite of e. Upper-division courses also wait for the term in which
// the unit threshold is reached.
func (s *state) earliestSlot(terms []*term, e Entry) int {
	if e.Type != domain.TypeCourse {
		return 0
	}
	slot := 0
	if info, ok := s.p.cat.Course(e.Course); ok {
		needs := map[string]bool{}
		for _, c := range info.Prerequisites.Codes() {
			needs[c] = true
		}
		for k, t := range terms {
			for _, other := range t.entries {
				if other.Type == domain.TypeCourse && needs[domain.NormalizeCode(other.Course)] {
					slot = k + 1
					break
				}
			}
		}
	}
	if s.p.upperCode(e.Course) {
		gate, cum := len(terms), s.completedUnits
		for k, t := range terms {
			cum += t.units
			if cum >= s.p.cfg.UpperDivisionUnits {
				gate = k
				break
			}
		}
		if gate > slot {
			slot = gate
		}
	}
	return slot
}

func snapshot(items []item) []item { return append([]item(nil), items...) }

func remove(items []item, seq int) []item {
	for i, it := range items {
		if it.seq == seq {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

func sumUnits(items []item) float64 {
	var total float64
	for _, it := range items {
		total += it.units
	}
	return total
}
