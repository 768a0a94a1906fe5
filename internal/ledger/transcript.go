package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Transcript is the planning request payload for one student.
type Transcript struct {
	Major            string           `json:"major"`
	UnitsPerSemester float64          `json:"units_per_semester,omitempty"`
	Native           []NativeCourse   `json:"sjsu_courses"`
	Exams            []ExamResult     `json:"ap_exams"`
	Transfer         []TransferCourse `json:"cc_courses"`
}

type NativeCourse struct {
	Code   string `json:"code"`
	Title  string `json:"title,omitempty"`
	Units  any    `json:"units,omitempty"`
	Grade  Grade  `json:"grade,omitempty"`
	Status string `json:"status,omitempty"`
}

type ExamResult struct {
	Test  string   `json:"test"`
	Score *float64 `json:"score"`
}

type TransferCourse struct {
	Institution string `json:"institution"`
	Code        string `json:"code"`
	Title       string `json:"title,omitempty"`
	Grade       Grade  `json:"grade,omitempty"`
}

// Grade is a letter or numeric grade. Numeric JSON values are kept as their
// decimal text so "85" and 85 read the same.
type Grade string

func (g *Grade) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*g = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = Grade(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("grade %s: %w", b, err)
	}
	*g = Grade(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// DecodeTranscript reads one transcript payload.
func DecodeTranscript(r io.Reader) (Transcript, error) {
	var t Transcript
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Transcript{}, fmt.Errorf("ledger: decode transcript: %w", err)
	}
	return t, nil
}
