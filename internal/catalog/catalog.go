// Package catalog holds the read-only reference data the planner works against:
// the course catalog, GE areas, exam credit rules, transfer articulation tables,
// the majors index and per-major roadmaps.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"degree-planner/internal/domain"
	"degree-planner/internal/prereq"
)

var (
	ErrMajorNotFound   = errors.New("major not found")
	ErrRoadmapNotFound = errors.New("roadmap not found")
)

var (
	slugChars        = regexp.MustCompile(`[^a-z0-9,&]+`)
	institutionChars = regexp.MustCompile(`[^a-z0-9]+`)
	underscores      = regexp.MustCompile(`_+`)
)

// CourseInfo is one catalog course.
type CourseInfo struct {
	Code          string
	Name          string
	Units         float64
	GEAreas       []string
	Prerequisites prereq.Expression
	Corequisites  prereq.Expression
}

// GEArea describes one GE area and the courses that satisfy it.
type GEArea struct {
	Tag     string
	Title   string
	Courses []string
	Units   float64
}

// Exam is one credit-by-exam rule.
type Exam struct {
	Name        string
	Code        string
	Equivalents []string // course codes granted, in catalog order
	Satisfies   []string // raw area tokens
	Units       float64
}

// Major is one entry of the majors index.
type Major struct {
	Name string
	Slug string
}

// Articulation is a transfer institution's equivalence table.
type Articulation struct {
	Institution string
	Courses     []ArticulatedCourse
}

// ArticulatedCourse maps one native course to alternative equivalence groups,
// tried in source order.
type ArticulatedCourse struct {
	Code   string
	Groups []prereq.Group
}

// MajorCatalog is the optional supplementary catalog of a major.
type MajorCatalog struct {
	OptionalSequences []OptionalSequence
	FieldRequirements []FieldRequirement
}

type majorKey struct {
	key   string
	major Major
}

// Catalog is immutable once built and safe for concurrent readers.
type Catalog struct {
	courses       map[string]CourseInfo
	geAreas       map[string]GEArea
	exams         map[string]Exam
	majors        []majorKey
	roadmaps      map[string][]RoadmapEntry
	articulations map[string]*Articulation
	majorCatalogs map[string]*MajorCatalog
}

// New builds a catalog from raw records. Later duplicates of a course code or
// area replace earlier ones.
func New(data Data) *Catalog {
	c := &Catalog{
		courses:       make(map[string]CourseInfo, len(data.Courses)),
		geAreas:       make(map[string]GEArea),
		exams:         make(map[string]Exam),
		roadmaps:      make(map[string][]RoadmapEntry, len(data.Roadmaps)),
		articulations: make(map[string]*Articulation, len(data.Articulations)),
		majorCatalogs: make(map[string]*MajorCatalog, len(data.MajorCatalogs)),
	}
	for _, rec := range data.Courses {
		c.addCourse(rec)
	}
	for _, rec := range data.GEAreas {
		c.addGEArea(rec)
	}
	for _, rec := range data.Exams {
		c.addExam(rec)
	}
	c.indexMajors(data.Majors)
	for slug, entries := range data.Roadmaps {
		c.roadmaps[slug] = entries
	}
	for name, rec := range data.Articulations {
		c.articulations[InstitutionKey(name)] = buildArticulation(name, rec)
	}
	for slug, rec := range data.MajorCatalogs {
		c.majorCatalogs[slug] = &MajorCatalog{
			OptionalSequences: rec.Output.MajorRequirements.OptionalSequences,
			FieldRequirements: rec.Output.FieldRequirements,
		}
	}
	return c
}

func (c *Catalog) addCourse(rec CourseRecord) {
	if strings.TrimSpace(rec.CourseID) == "" {
		return
	}
	code := domain.NormalizeCode(rec.CourseID)
	name := rec.CourseName
	if name == "" {
		name = code
	}
	var areas []string
	for _, a := range rec.GEAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	c.courses[code] = CourseInfo{
		Code:          code,
		Name:          name,
		Units:         domain.ParseUnits(rec.Units),
		GEAreas:       areas,
		Prerequisites: prereq.Parse(rec.Prerequisites),
		Corequisites:  prereq.Parse(rec.Corequisites),
	}
}

func (c *Catalog) addGEArea(rec GEAreaRecord) {
	var areas []string
	switch v := rec.Area.(type) {
	case string:
		areas = []string{v}
	case []any:
		for _, a := range v {
			if s, ok := a.(string); ok {
				areas = append(areas, s)
			}
		}
	case []string:
		areas = v
	}
	for _, a := range areas {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		title := rec.Title
		if title == "" {
			title = a
		}
		tag := strings.ToUpper(a)
		c.geAreas[tag] = GEArea{Tag: tag, Title: title, Courses: rec.Courses, Units: domain.ParseUnits(rec.Units)}
	}
}

func (c *Catalog) addExam(rec ExamRecord) {
	exam := Exam{Name: rec.Name, Code: rec.Code, Units: domain.ParseUnits(rec.Units)}
	for _, group := range rec.SJSUCourses {
		exam.Equivalents = append(exam.Equivalents, flattenStrings(group)...)
	}
	for _, s := range rec.Satisfies {
		exam.Satisfies = append(exam.Satisfies, flattenStrings(s)...)
	}
	for _, key := range []string{domain.NormalizeKey(rec.Name), domain.NormalizeKey(rec.Code)} {
		if key != "" {
			c.exams[key] = exam
		}
	}
}

func (c *Catalog) indexMajors(records []MajorRecord) {
	for _, rec := range records {
		name := strings.TrimSpace(rec.Major)
		if name == "" {
			continue
		}
		m := Major{Name: name, Slug: MajorSlug(name)}
		c.majors = append(c.majors, majorKey{key: domain.NormalizeKey(name), major: m})
		if trimmed := strings.SplitN(name, ",", 2)[0]; trimmed != name {
			c.majors = append(c.majors, majorKey{key: domain.NormalizeKey(trimmed), major: m})
		}
	}
}

// buildArticulation merges the rows of every section by native course. Unmarked
// multi-course groups accept any listed course; "&&" groups need every course.
func buildArticulation(institution string, rec ArticulationRecord) *Articulation {
	a := &Articulation{Institution: institution}
	index := map[string]int{}
	for _, section := range rec.Output {
		for _, row := range section.Courses {
			code := domain.NormalizeCode(row.SJSUCourse)
			if code == "" || code == "NONE" {
				continue
			}
			groups := equivalenceGroups(flattenStrings(row.Equivalents))
			i, ok := index[code]
			if !ok {
				i = len(a.Courses)
				index[code] = i
				a.Courses = append(a.Courses, ArticulatedCourse{Code: code})
			}
			a.Courses[i].Groups = append(a.Courses[i].Groups, groups...)
		}
	}
	return a
}

func equivalenceGroups(items []string) []prereq.Group {
	var out []prereq.Group
	var current []string
	kind := prereq.Single
	flush := func() {
		if len(current) == 0 || current[0] == "NONE" {
			current = nil
			return
		}
		g := prereq.Group{Kind: kind, Tokens: current}
		if kind == prereq.Single && len(current) > 1 {
			g.Kind = prereq.Any
		}
		for _, code := range current {
			g.Options = append(g.Options, []string{code})
		}
		out = append(out, g)
		current = nil
	}
	for _, item := range items {
		switch {
		case strings.HasPrefix(item, "||"):
			flush()
			kind = prereq.Any
			item = item[2:]
		case strings.HasPrefix(item, "&&"):
			flush()
			kind = prereq.All
			item = item[2:]
		case len(current) == 0:
			kind = prereq.Single
		}
		if code := domain.NormalizeCode(item); code != "" {
			current = append(current, code)
		}
	}
	flush()
	return out
}

func flattenStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, flattenStrings(item)...)
		}
		return out
	default:
		return nil
	}
}

// MajorSlug derives the file stem used for a major's roadmap and catalog files.
func MajorSlug(major string) string {
	slug := slugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(major)), "_")
	return strings.Trim(underscores.ReplaceAllString(slug, "_"), "_")
}

// InstitutionKey derives the file stem of a transfer institution's articulation table.
func InstitutionKey(institution string) string {
	return strings.Trim(institutionChars.ReplaceAllString(strings.ToLower(institution), "_"), "_")
}

// Course looks up a catalog course by any spelling of its code.
func (c *Catalog) Course(code string) (CourseInfo, bool) {
	info, ok := c.courses[domain.NormalizeCode(code)]
	return info, ok
}

// HasCourse reports whether code names a catalog course.
func (c *Catalog) HasCourse(code string) bool {
	_, ok := c.Course(code)
	return ok
}

// CourseCount is the number of distinct catalog courses.
func (c *Catalog) CourseCount() int { return len(c.courses) }

// GEArea looks up an area by tag ("GE_AREA_1A").
func (c *Catalog) GEArea(tag string) (GEArea, bool) {
	area, ok := c.geAreas[strings.ToUpper(strings.TrimSpace(tag))]
	return area, ok
}

// Exam looks up an exam rule by name or code.
func (c *Catalog) Exam(name string) (Exam, bool) {
	exam, ok := c.exams[domain.NormalizeKey(name)]
	return exam, ok
}

// Majors lists every indexed major once, in index order.
func (c *Catalog) Majors() []Major {
	var out []Major
	seen := map[string]bool{}
	for _, mk := range c.majors {
		if !seen[mk.major.Slug] {
			seen[mk.major.Slug] = true
			out = append(out, mk.major)
		}
	}
	return out
}

// ResolveMajor finds a major by exact normalized name, by the part before the
// first comma, or by the first indexed name that starts with the query.
func (c *Catalog) ResolveMajor(name string) (Major, error) {
	key := domain.NormalizeKey(name)
	if key == "" {
		return Major{}, fmt.Errorf("catalog: resolve major %q: %w", name, ErrMajorNotFound)
	}
	for _, mk := range c.majors {
		if mk.key == key {
			return mk.major, nil
		}
	}
	for _, mk := range c.majors {
		if strings.HasPrefix(mk.key, key) {
			return mk.major, nil
		}
	}
	return Major{}, fmt.Errorf("catalog: resolve major %q: %w", name, ErrMajorNotFound)
}

// Roadmap returns the roadmap of a major along with the resolved major.
func (c *Catalog) Roadmap(name string) ([]RoadmapEntry, Major, error) {
	m, err := c.ResolveMajor(name)
	if err != nil {
		return nil, Major{}, err
	}
	entries, ok := c.roadmaps[m.Slug]
	if !ok {
		return nil, m, fmt.Errorf("catalog: roadmap for %q: %w", m.Name, ErrRoadmapNotFound)
	}
	return entries, m, nil
}

// MajorCatalog returns the supplementary catalog of a major, or nil when the
// major is unknown or has none.
func (c *Catalog) MajorCatalog(name string) *MajorCatalog {
	m, err := c.ResolveMajor(name)
	if err != nil {
		return nil
	}
	return c.majorCatalogs[m.Slug]
}

// Articulation returns a transfer institution's table, or nil when none is known.
func (c *Catalog) Articulation(institution string) *Articulation {
	if strings.TrimSpace(institution) == "" {
		return nil
	}
	return c.articulations[InstitutionKey(institution)]
}
