package domain

import (
	"regexp"
	"strings"
)

var (
	geAreaTag   = regexp.MustCompile(`GE_AREA_[A-Z0-9]+`)
	simpleArea  = regexp.MustCompile(`^[1-6][A-C]?$`)
	civicsTag   = regexp.MustCompile(`US\d+`)
	civicsLoose = regexp.MustCompile(`US[_A-Z0-9]+`)
	digit       = regexp.MustCompile(`\d`)
	nonTagChars = regexp.MustCompile(`[^A-Z0-9]+`)
)

// GEAreaTag builds the canonical GE tag for a short area name ("1A" -> "GE_AREA_1A").
func GEAreaTag(area string) string {
	return "GE_AREA_" + strings.ToUpper(strings.TrimSpace(area))
}

// SplitCourseAreas separates a catalog course's area tokens into GE tags and
// institutional (civics) tags. Bare area names like "1A" become GE tags.
func SplitCourseAreas(tokens []string) (ge []string, institutional []string) {
	for _, tok := range tokens {
		up := strings.ToUpper(tok)
		for _, m := range geAreaTag.FindAllString(up, -1) {
			ge = appendUnique(ge, m)
		}
		for _, field := range nonTagChars.Split(up, -1) {
			if simpleArea.MatchString(field) {
				ge = appendUnique(ge, GEAreaTag(field))
			}
		}
		for _, m := range civicsTag.FindAllString(up, -1) {
			institutional = appendUnique(institutional, m)
		}
	}
	return ge, institutional
}

// RequirementAreas extracts GE and institutional tags from roadmap name tokens.
// Institutional markers such as "US_1_2" expand to one tag per digit ("US1", "US2").
func RequirementAreas(tokens []string) (ge []string, institutional []string) {
	up := strings.ToUpper(strings.Join(tokens, " "))
	for _, m := range geAreaTag.FindAllString(up, -1) {
		ge = append(ge, m)
	}
	for _, m := range civicsLoose.FindAllString(up, -1) {
		for _, d := range digit.FindAllString(m, -1) {
			institutional = append(institutional, "US"+d)
		}
	}
	return ge, institutional
}

// ExamArea normalizes one "satisfies" token of the exam-credit catalog.
// Institutional tokens such as "US 2" or "US_2_3" expand to one tag per digit.
// ok is false for tokens that name neither a GE nor an institutional area.
func ExamArea(token string) (tags []string, institutional bool, ok bool) {
	area := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(token)), " ", "_")
	switch {
	case strings.HasPrefix(area, "AREA"):
		return []string{"GE_" + area}, false, true
	case strings.HasPrefix(area, "GE_"):
		return []string{area}, false, true
	case strings.HasPrefix(area, "US"):
		for _, m := range civicsLoose.FindAllString(area, -1) {
			for _, d := range digit.FindAllString(m, -1) {
				tags = appendUnique(tags, "US"+d)
			}
		}
		return tags, true, len(tags) > 0
	default:
		return nil, false, false
	}
}

// SanitizedTag turns free display text into a tag ("Upper Division GE Area S" -> "UPPER_DIVISION_GE_AREA_S").
func SanitizedTag(text string) string {
	return strings.Trim(nonTagChars.ReplaceAllString(strings.ToUpper(text), "_"), "_")
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
