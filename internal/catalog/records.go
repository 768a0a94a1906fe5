package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The record types mirror the JSON files produced by the catalog ETL tools.
// Field names follow those files, not Go conventions, through their tags.

type CourseRecord struct {
	CourseID      string   `json:"course_id"`
	CourseName    string   `json:"course_name"`
	Units         any      `json:"units"`
	GEAreas       []string `json:"ge_areas"`
	Prerequisites any      `json:"prerequisites"`
	Corequisites  any      `json:"corequisites"`
}

type GEAreaRecord struct {
	Area    any      `json:"area"` // string or list of strings
	Title   string   `json:"title"`
	Courses []string `json:"course"`
	Units   any      `json:"units"`
}

type ExamRecord struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	SJSUCourses []any  `json:"sjsu_courses"` // list of equivalent-course groups
	Satisfies   []any  `json:"satisfies"`    // area tokens, possibly nested
	Units       any    `json:"units"`
}

type MajorRecord struct {
	Major string `json:"major"`
	Link  string `json:"link,omitempty"`
}

// RoadmapEntry is one line of a major's four-year roadmap.
type RoadmapEntry struct {
	Name     Name   `json:"name"`
	Year     int    `json:"year"`
	Semester string `json:"semester"`
	Units    any    `json:"units"`
}

// Name holds a roadmap name field, which is either one token or a list of
// alternative tokens.
type Name struct {
	Tokens []string
	List   bool
}

// NameOf builds a single-token name.
func NameOf(token string) Name { return Name{Tokens: []string{token}} }

// NameList builds a list name.
func NameList(tokens ...string) Name { return Name{Tokens: tokens, List: true} }

func (n *Name) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = Name{Tokens: []string{s}}
		return nil
	}
	var items []any
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("roadmap name: %w", err)
	}
	out := Name{List: true}
	for _, it := range items {
		if s, ok := it.(string); ok {
			out.Tokens = append(out.Tokens, s)
		}
	}
	*n = out
	return nil
}

func (n Name) MarshalJSON() ([]byte, error) {
	if n.List {
		return json.Marshal(n.Tokens)
	}
	return json.Marshal(n.String())
}

func (n Name) String() string {
	return strings.Join(n.Tokens, " ")
}

// ArticulationRecord is one transfer institution's articulation table.
type ArticulationRecord struct {
	Output []ArticulationSection `json:"output"`
}

type ArticulationSection struct {
	Courses []ArticulationRow `json:"courses"`
}

type ArticulationRow struct {
	SJSUCourse  string `json:"sjsu_course"`
	Equivalents []any  `json:"equivalents"`
}

// MajorCatalogRecord is the supplementary per-major catalog (optional course
// sequences and elective field lists).
type MajorCatalogRecord struct {
	Output struct {
		MajorRequirements struct {
			OptionalSequences []OptionalSequence `json:"optional_sequences"`
		} `json:"major_requirements"`
		FieldRequirements []FieldRequirement `json:"field_requirements"`
	} `json:"output"`
}

type OptionalSequence struct {
	Name    string     `json:"name"`
	Options [][]string `json:"options"`
}

type FieldRequirement struct {
	FieldName string   `json:"field_name"`
	Courses   []string `json:"courses"`
}

// Data is everything a Catalog is built from. It doubles as the wire format of a
// single-file catalog bundle.
type Data struct {
	Courses       []CourseRecord                `json:"courses"`
	GEAreas       []GEAreaRecord                `json:"ge_areas"`
	Exams         []ExamRecord                  `json:"exams"`
	Majors        []MajorRecord                 `json:"majors"`
	Roadmaps      map[string][]RoadmapEntry     `json:"roadmaps"`       // keyed by major slug
	Articulations map[string]ArticulationRecord `json:"articulations"`  // keyed by institution name
	MajorCatalogs map[string]MajorCatalogRecord `json:"major_catalogs"` // keyed by major slug
}
