package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonCodeChars   = regexp.MustCompile(`[^A-Z0-9 ]`)
	spaces         = regexp.MustCompile(`\s+`)
	letterDigit    = regexp.MustCompile(`([A-Z])(\d)`)
	numberToken    = regexp.MustCompile(`^(\d+)([A-Z]*)$`)
	firstNumber    = regexp.MustCompile(`\d+`)
	nonKeyChars    = regexp.MustCompile(`[^a-z0-9]`)
	areaLikeCourse = regexp.MustCompile(`^(GE[_ ]AREA|US[_ ]?\d)`)
)

// NormalizeCode turns any spelling of a course code ("cs046a", "CS_046A", "CS 46A")
// into its canonical form ("CS 46A"). It is idempotent.
func NormalizeCode(value string) string {
	v := strings.ToUpper(strings.ReplaceAll(value, "_", " "))
	v = nonCodeChars.ReplaceAllString(v, " ")
	v = letterDigit.ReplaceAllString(v, "$1 $2")
	v = strings.TrimSpace(spaces.ReplaceAllString(v, " "))
	if v == "" {
		return ""
	}

	parts := strings.Split(v, " ")
	for i, p := range parts {
		m := numberToken.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		num := strings.TrimLeft(m[1], "0")
		if num == "" {
			num = "0"
		}
		parts[i] = num + m[2]
	}
	return strings.Join(parts, " ")
}

// Slug is the underscore form used in file names and schedule keys ("CS_46A").
func Slug(code string) string {
	return strings.ReplaceAll(NormalizeCode(code), " ", "_")
}

// CourseNumber returns the first numeric run of a code (46 for "CS 46A").
func CourseNumber(code string) (int, bool) {
	m := firstNumber.FindString(code)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsUpperDivision reports whether the catalog number is 100 or above.
func IsUpperDivision(code string) bool {
	n, ok := CourseNumber(NormalizeCode(code))
	return ok && n >= 100
}

// Subject returns the subject prefix of a normalized code ("CS" for "CS 46A").
func Subject(code string) string {
	fields := strings.Fields(NormalizeCode(code))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LooksLikeCourse reports whether a roadmap token has the shape of a course code:
// an alphabetic subject of two or more letters followed by a token starting with a digit.
// Area markers such as "GE_AREA_1A" or "US_1" never qualify.
func LooksLikeCourse(token string) bool {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" || areaLikeCourse.MatchString(t) {
		return false
	}
	fields := strings.FieldsFunc(t, func(r rune) bool { return r == '_' || r == ' ' })
	if len(fields) < 2 || len(fields[0]) < 2 {
		return false
	}
	for _, r := range fields[0] {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return fields[1][0] >= '0' && fields[1][0] <= '9'
}

// NormalizeKey lowercases and strips everything but letters and digits.
// It is used for fuzzy name lookups (majors, exams, catalog sections).
func NormalizeKey(value string) string {
	return nonKeyChars.ReplaceAllString(strings.ToLower(value), "")
}

// CollapseSpaces trims and collapses inner whitespace runs.
func CollapseSpaces(value string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(value, " "))
}
