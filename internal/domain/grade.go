package domain

import (
	"strconv"
	"strings"
)

var passingGrades = map[string]bool{
	"A": true, "A-": true, "A+": true,
	"B+": true, "B": true, "B-": true,
	"C+": true, "C": true, "C-": true,
	"CR": true, "P": true, "S": true,
}

// IsPassingGrade accepts letter grades C- and above, CR/P/S, and numeric grades >= 70.
func IsPassingGrade(grade string) bool {
	g := strings.ToUpper(strings.TrimSpace(grade))
	if g == "" {
		return false
	}
	if n, err := strconv.ParseFloat(g, 64); err == nil {
		return n >= 70
	}
	return passingGrades[g]
}

// IsInProgress matches the transcript status literal for courses currently being taken.
func IsInProgress(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "in progress")
}
