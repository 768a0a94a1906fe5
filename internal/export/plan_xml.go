package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"degree-planner/internal/advisor"
	"degree-planner/internal/evaluator"
	"degree-planner/internal/planner"
)

/*
Degree plan XML, one document per recommendation:

<Degree_Plan run_id="..." major="Computer Science, BS">
  <units_remaining>12</units_remaining>
  <estimated_semesters>2</estimated_semesters>
  <requirement_list>
    <requirement id="MATH_30" type="course" status="fulfilled">
      <name>MATH 30</name>
      <units>3</units>
      <source>AP</source>
      <satisfied_by>MATH 30</satisfied_by>
    </requirement>
  </requirement_list>
  <semester_list>
    <semester label="Semester 1" units="8">
      <course type="course" requirement_id="CS_46A">
        <code>CS 46A</code>
        <title>Introduction to Programming</title>
        <units>4</units>
      </course>
    </semester>
  </semester_list>
  <notes>
    <note>...</note>
  </notes>
  <validation ok="true">...</validation>
</Degree_Plan>
*/

type xmlPlan struct {
	XMLName xml.Name `xml:"Degree_Plan"`
	RunID   string   `xml:"run_id,attr"`
	Major   string   `xml:"major,attr"`

	UnitsRemaining string `xml:"units_remaining"`
	EstimatedTerms int    `xml:"estimated_semesters"`

	Requirements []xmlRequirement `xml:"requirement_list>requirement"`
	Terms        []xmlTerm        `xml:"semester_list>semester"`
	Unscheduled  []xmlCourse      `xml:"unscheduled_list>course,omitempty"`
	Notes        []string         `xml:"notes>note,omitempty"`

	Validation xmlValidation `xml:"validation"`
}

type xmlRequirement struct {
	ID          string `xml:"id,attr"`
	Type        string `xml:"type,attr"`
	Status      string `xml:"status,attr"`
	Name        string `xml:"name"`
	Units       string `xml:"units,omitempty"`
	Source      string `xml:"source,omitempty"`
	SatisfiedBy string `xml:"satisfied_by,omitempty"`
}

type xmlTerm struct {
	Label   string      `xml:"label,attr"`
	Units   string      `xml:"units,attr"`
	Courses []xmlCourse `xml:"course"`
}

type xmlCourse struct {
	Type          string   `xml:"type,attr"`
	RequirementID string   `xml:"requirement_id,attr,omitempty"`
	Code          string   `xml:"code"`
	Title         string   `xml:"title,omitempty"`
	Units         string   `xml:"units"`
	Alternatives  []string `xml:"alternatives_list>alternative,omitempty"`
	Suggested     []string `xml:"suggested_list>course,omitempty"`
	Note          string   `xml:"note,omitempty"`
}

type xmlValidation struct {
	OK     bool   `xml:"ok,attr"`
	Report string `xml:",chardata"`
}

// EncodePlanXML writes the recommendation as an indented XML document.
func EncodePlanXML(w io.Writer, r advisor.Result) error {
	b, err := xml.MarshalIndent(toXMLPlan(r), "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}

// WritePlanXML writes the XML document to outPath.
func WritePlanXML(outPath string, r advisor.Result) error {
	var buf bytes.Buffer
	if err := EncodePlanXML(&buf, r); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}

func toXMLPlan(r advisor.Result) xmlPlan {
	out := xmlPlan{
		RunID:          r.Summary.RunID,
		Major:          r.Summary.Major,
		UnitsRemaining: floatToString(r.Summary.UnitsRemaining),
		EstimatedTerms: r.Plan.EstimatedTerms,
		Notes:          compactStrings(r.Summary.Notes),
		Validation: xmlValidation{
			OK:     r.Summary.Validation.OK(),
			Report: r.Summary.ValidationReport,
		},
	}

	for _, res := range r.Summary.Fulfilled {
		out.Requirements = append(out.Requirements, toXMLRequirement(res))
	}
	for _, res := range r.Summary.Remaining {
		out.Requirements = append(out.Requirements, toXMLRequirement(res))
	}

	for _, t := range r.Plan.Terms {
		row := xmlTerm{Label: t.Label, Units: floatToString(t.TotalUnits)}
		for _, e := range t.Entries {
			row.Courses = append(row.Courses, toXMLCourse(e))
		}
		out.Terms = append(out.Terms, row)
	}
	for _, e := range r.Plan.Unscheduled {
		out.Unscheduled = append(out.Unscheduled, toXMLCourse(e))
	}
	return out
}

func toXMLRequirement(res evaluator.Result) xmlRequirement {
	req := res.Requirement
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = req.ID
	}
	row := xmlRequirement{
		ID:          req.ID,
		Type:        string(req.Type),
		Status:      string(res.Status),
		Name:        name,
		Source:      res.Source,
		SatisfiedBy: firstNonEmpty(res.SatisfiedBy, res.SelectedCourse),
	}
	if res.Units > 0 {
		row.Units = floatToString(res.Units)
	}
	return row
}

func toXMLCourse(e planner.Entry) xmlCourse {
	return xmlCourse{
		Type:          string(e.Type),
		RequirementID: e.RequirementID,
		Code:          strings.TrimSpace(e.Course),
		Title:         strings.TrimSpace(e.Title),
		Units:         floatToString(e.Units),
		Alternatives:  compactStrings(e.Alternatives),
		Suggested:     compactStrings(cleanStrings(e.SuggestedCourses)),
		Note:          firstNonEmpty(e.Note, e.Detail),
	}
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		v := strings.TrimSpace(s)
		if v == "" {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
