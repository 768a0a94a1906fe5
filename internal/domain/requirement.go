package domain

// RequirementType classifies a normalized roadmap line item.
type RequirementType string

const (
	TypeCourse    RequirementType = "course"
	TypeGE        RequirementType = "ge"
	TypeElective  RequirementType = "elective"
	TypeActivity  RequirementType = "activity"
	TypeMilestone RequirementType = "milestone"
)

// UnknownTerm marks a roadmap entry without a recognizable term.
const UnknownTerm = 99

var termOrder = map[string]int{"Fall": 0, "Spring": 1, "Summer": 2, "Winter": 3}

// TermOrder maps a roadmap semester name onto its calendar position within a year.
func TermOrder(semester string) int {
	if o, ok := termOrder[semester]; ok {
		return o
	}
	return UnknownTerm
}

// Requirement is one degree-roadmap obligation after normalization.
type Requirement struct {
	ID                 string          `json:"identifier"`
	DisplayName        string          `json:"display_name"`
	Type               RequirementType `json:"type"`
	Units              float64         `json:"units"`
	GEAreas            []string        `json:"ge_areas,omitempty"`
	InstitutionalAreas []string        `json:"ai_areas,omitempty"`
	Code               string          `json:"course,omitempty"`
	Alternatives       []string        `json:"alternatives,omitempty"`
	Year               int             `json:"year,omitempty"`
	TermOrder          int             `json:"term_order"`
	Order              int             `json:"order"`
}

// Codes returns the primary code followed by the alternatives, without duplicates.
func (r Requirement) Codes() []string {
	out := make([]string, 0, 1+len(r.Alternatives))
	seen := map[string]bool{}
	if r.Code != "" {
		out = append(out, r.Code)
		seen[r.Code] = true
	}
	for _, alt := range r.Alternatives {
		if !seen[alt] {
			seen[alt] = true
			out = append(out, alt)
		}
	}
	return out
}

// TermIndex is the zero-based roadmap term the requirement is planned for.
// Two regular terms per year; summer and winter fold into the second slot and
// unknown terms default to the first slot of the year.
func (r Requirement) TermIndex() int {
	year := 0
	if r.Year > 0 {
		year = r.Year - 1
	}
	term := r.TermOrder
	if term >= UnknownTerm || term < 0 {
		term = 0
	}
	if term > 1 {
		term = 1
	}
	return year*2 + term
}

// SortYear gives entries without a declared year a late sort position.
func (r Requirement) SortYear() int {
	if r.Year <= 0 {
		return UnknownTerm
	}
	return r.Year
}
