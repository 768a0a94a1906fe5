package planner

import (
	"degree-planner/internal/domain"
	"degree-planner/internal/prereq"
)

// prereqsMet reports whether code can be taken now. Only prerequisites that
// name a course the program itself requires can block; other catalog
// prerequisites are assumed handled outside the roadmap.
func (s *state) prereqsMet(code string) bool {
	return s.prereqsHold(code, func(c string) bool { return s.available[c] })
}

// satisfiable reports whether the prerequisites of code would hold once every
// pending course and everything placed in t is taken.
func (s *state) satisfiable(code string, t *term) bool {
	planned := map[string]bool{}
	for _, it := range s.courses {
		for _, c := range it.req.Codes() {
			planned[c] = true
		}
	}
	return s.prereqsHold(code, func(c string) bool { return s.available[c] || t.taken[c] || planned[c] })
}

func (s *state) prereqsHold(code string, has func(string) bool) bool {
	info, ok := s.p.cat.Course(code)
	if !ok {
		return true
	}
	for _, g := range info.Prerequisites {
		options := s.knownOptions(g)
		if len(options) == 0 {
			continue
		}
		if g.Effective() == prereq.Any {
			references, met := false, false
			for _, opt := range options {
				references = references || s.anyRequired(opt)
				met = met || anyOf(opt, has)
			}
			if references && !met {
				return false
			}
			continue
		}
		for _, opt := range options {
			if s.anyRequired(opt) && !anyOf(opt, has) {
				return false
			}
		}
	}
	return true
}

// knownOptions drops codes nobody knows about: not in the catalog, not earned
// and not required.
func (s *state) knownOptions(g prereq.Group) [][]string {
	var out [][]string
	for _, opt := range g.Options {
		var codes []string
		seen := map[string]bool{}
		for _, c := range opt {
			c = domain.NormalizeCode(c)
			if seen[c] {
				continue
			}
			if s.p.cat.HasCourse(c) || s.available[c] || s.required[c] {
				seen[c] = true
				codes = append(codes, c)
			}
		}
		if len(codes) > 0 {
			out = append(out, codes)
		}
	}
	return out
}

func (s *state) anyRequired(codes []string) bool {
	for _, c := range codes {
		if s.required[c] {
			return true
		}
	}
	return false
}

func anyOf(codes []string, has func(string) bool) bool {
	for _, c := range codes {
		if has(c) {
			return true
		}
	}
	return false
}

// canTake allows any item from its roadmap term on. Courses may be pulled
// earlier when their prerequisites already hold.
func (s *state) canTake(it item) bool {
	if s.index >= it.req.TermIndex() {
		return true
	}
	if it.req.Type != domain.TypeCourse {
		return true
	}
	for _, code := range it.req.Codes() {
		if s.available[code] {
			return false
		}
		if s.prereqsMet(code) {
			return true
		}
	}
	return false
}

// blocked counts pending courses none of whose open codes can be taken yet.
func (s *state) blocked() int {
	n := 0
	for _, it := range s.courses {
		ok := false
		for _, code := range it.req.Codes() {
			if !s.available[code] && s.prereqsMet(code) {
				ok = true
				break
			}
		}
		if !ok {
			n++
		}
	}
	return n
}

// gateOpen enforces the upper-division threshold for code.
func (s *state) gateOpen(code string) bool {
	if !s.p.upperCode(code) {
		return true
	}
	if s.completedUnits+s.scheduledUnits >= s.p.cfg.UpperDivisionUnits {
		return true
	}
	return !s.lowerRemaining()
}

// lowerRemaining reports pending lower-division work. Upper-division GE does
// not count.
func (s *state) lowerRemaining() bool {
	for _, it := range s.courses {
		for _, code := range it.req.Codes() {
			if !s.p.upperCode(code) {
				return true
			}
		}
	}
	for _, it := range s.ge {
		if !it.upper {
			return true
		}
	}
	return len(s.activities) > 0
}

// satisfied reports whether an alternative of a pending course was already
// scheduled through another requirement.
func (s *state) satisfied(it item, t *term) bool {
	for _, code := range it.req.Codes() {
		if s.available[code] || t.taken[code] {
			return true
		}
	}
	return false
}
