package ledger

import (
	"fmt"
	"strings"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
	"degree-planner/internal/prereq"
)

// Build constructs the ledger for one transcript. Native coursework is applied
// first, then exam credit, then transfer credit; Record.Add resolves overlaps.
func Build(t Transcript, cat *catalog.Catalog) *Record {
	r := NewRecord()
	addNative(r, t.Native, cat)
	addExams(r, t.Exams, cat)
	addTransfer(r, t.Transfer, cat)
	return r
}

func courseAreas(cat *catalog.Catalog, code string) (catalog.CourseInfo, bool, []string, []string) {
	info, ok := cat.Course(code)
	if !ok {
		return info, false, nil, nil
	}
	ge, inst := domain.SplitCourseAreas(info.GEAreas)
	return info, true, ge, inst
}

func addNative(r *Record, courses []NativeCourse, cat *catalog.Catalog) {
	for _, c := range courses {
		code := domain.NormalizeCode(c.Code)
		if code == "" {
			continue
		}
		if domain.IsInProgress(c.Status) {
			r.MarkInProgress(code)
			continue
		}
		if !domain.IsPassingGrade(string(c.Grade)) {
			continue
		}
		info, known, ge, inst := courseAreas(cat, code)
		title, units := c.Title, domain.UnitsOr(domain.ParseUnits(c.Units), domain.DefaultUnits)
		if known {
			units = domain.UnitsOr(info.Units, units)
			if title == "" {
				title = info.Name
			}
		}
		if title == "" {
			title = code
		}
		r.Add(domain.Completion{
			Code:    code,
			Title:   title,
			Units:   units,
			Source:  domain.SourceNative,
			Detail:  "SJSU coursework",
			GEAreas: ge,
		}, ge, inst)
	}
}

func addExams(r *Record, exams []ExamResult, cat *catalog.Catalog) {
	for _, e := range exams {
		if e.Score == nil || *e.Score < 3 {
			continue
		}
		exam, ok := cat.Exam(e.Test)
		if !ok {
			continue
		}
		var examGE, examInst []string
		for _, token := range exam.Satisfies {
			tags, institutional, ok := domain.ExamArea(token)
			switch {
			case !ok:
			case institutional:
				examInst = union(examInst, tags)
			default:
				examGE = union(examGE, tags)
			}
		}

		granted := false
		for _, raw := range exam.Equivalents {
			up := strings.ToUpper(raw)
			if strings.TrimSpace(raw) == "" || strings.Contains(up, "ELECTIVE") || strings.Contains(up, "NO CREDIT") {
				continue
			}
			code := domain.NormalizeCode(raw)
			info, known, ge, inst := courseAreas(cat, code)
			ge = union(ge, examGE)
			inst = union(inst, examInst)
			title, units := code, domain.UnitsOr(exam.Units, domain.DefaultUnits)
			if known {
				title, units = info.Name, domain.UnitsOr(info.Units, units)
			}
			r.Add(domain.Completion{
				Code:    code,
				Title:   title,
				Units:   units,
				Source:  domain.SourceExam,
				Detail:  "AP Exam: " + exam.Name,
				GEAreas: ge,
			}, ge, inst)
			granted = true
		}
		if !granted {
			r.AddAreas(domain.SourceExam, examGE, examInst)
		}
	}
}

func addTransfer(r *Record, courses []TransferCourse, cat *catalog.Catalog) {
	var institutions []string
	byInstitution := map[string][]TransferCourse{}
	for _, c := range courses {
		if _, seen := byInstitution[c.Institution]; !seen {
			institutions = append(institutions, c.Institution)
		}
		byInstitution[c.Institution] = append(byInstitution[c.Institution], c)
	}

	for _, inst := range institutions {
		table := cat.Articulation(inst)
		if table == nil {
			continue
		}
		passed := map[string]bool{}
		for _, c := range byInstitution[inst] {
			if domain.IsPassingGrade(string(c.Grade)) {
				passed[domain.NormalizeCode(c.Code)] = true
			}
		}
		for _, ac := range table.Courses {
			used := firstMatch(ac.Groups, passed)
			if used == nil {
				continue
			}
			info, known, ge, ai := courseAreas(cat, ac.Code)
			title, units := ac.Code, domain.DefaultUnits
			if known {
				title, units = info.Name, domain.UnitsOr(info.Units, units)
			}
			r.Add(domain.Completion{
				Code:    ac.Code,
				Title:   title,
				Units:   units,
				Source:  domain.SourceTransfer,
				Detail:  fmt.Sprintf("%s: %s", inst, strings.Join(used, ", ")),
				GEAreas: ge,
			}, ge, ai)
		}
	}
}

// firstMatch returns the external codes of the first equivalence group the
// student satisfies. Later groups are not consulted once one matches.
func firstMatch(groups []prereq.Group, passed map[string]bool) []string {
	for _, g := range groups {
		if used := matchGroup(g, passed); used != nil {
			return used
		}
	}
	return nil
}

func matchGroup(g prereq.Group, passed map[string]bool) []string {
	if g.Kind == prereq.All {
		var used []string
		for _, opt := range g.Options {
			code := firstPassed(opt, passed)
			if code == "" {
				return nil
			}
			used = append(used, code)
		}
		return used
	}
	for _, opt := range g.Options {
		if code := firstPassed(opt, passed); code != "" {
			return []string{code}
		}
	}
	return nil
}

func firstPassed(opt []string, passed map[string]bool) string {
	for _, code := range opt {
		if passed[code] {
			return code
		}
	}
	return ""
}

func union(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, v := range b {
		out = appendUnique(out, v)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
