package domain

// Source identifies where a course credit came from.
type Source string

const (
	SourceNative   Source = "SJSU"
	SourceTransfer Source = "CC"
	SourceExam     Source = "AP"
)

// Priority orders credit sources; institution-verified native coursework is the most
// authoritative record, exam credit the least.
func (s Source) Priority() int {
	switch s {
	case SourceNative:
		return 3
	case SourceTransfer:
		return 2
	case SourceExam:
		return 1
	default:
		return 0
	}
}

// Completion is one course the student holds credit for.
type Completion struct {
	Code    string   `json:"code"`
	Title   string   `json:"title"`
	Units   float64  `json:"units"`
	Source  Source   `json:"source"`
	Detail  string   `json:"detail"`
	GEAreas []string `json:"ge_areas,omitempty"`
}
