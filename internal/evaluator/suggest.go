package evaluator

import (
	"strings"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
)

// sampleSize bounds how many field courses are inspected to infer its subject.
const sampleSize = 5

var genericWords = map[string]bool{
	"elective": true, "electives": true, "upper": true, "lower": true,
	"division": true, "major": true, "course": true, "courses": true,
}

// Suggest looks up major-specific courses for a requirement by display name.
// Optional sequences are tried first (exact name, or a science sequence for a
// 5B/5C science area), then elective fields (exact name, or a subject-specific
// elective field whose subject the requirement names or a generic elective).
// Returns nil when nothing matches.
func Suggest(mc *catalog.MajorCatalog, name string) []string {
	if mc == nil {
		return nil
	}
	reqKey := domain.NormalizeKey(name)

	for _, seq := range mc.OptionalSequences {
		seqKey := domain.NormalizeKey(seq.Name)
		exact := seqKey == reqKey
		science := strings.Contains(seqKey, "science") && (strings.Contains(reqKey, "5b") || strings.Contains(reqKey, "5c"))
		if !exact && !science {
			continue
		}
		if courses := sequenceCourses(seq); len(courses) > 0 {
			return courses
		}
	}

	for _, field := range mc.FieldRequirements {
		if len(field.Courses) == 0 {
			continue
		}
		fieldKey := domain.NormalizeKey(field.FieldName)
		if fieldKey == reqKey {
			return field.Courses
		}
		if !strings.Contains(reqKey, "elective") || !strings.Contains(fieldKey, "elective") {
			continue
		}
		subject := dominantSubject(field.Courses)
		if subject != "" && namesSubject(name, subject) {
			return field.Courses
		}
	}
	return nil
}

func sequenceCourses(seq catalog.OptionalSequence) []string {
	var out []string
	for _, group := range seq.Options {
		for _, opt := range group {
			code := strings.TrimSpace(strings.TrimLeft(opt, "|&"))
			if code != "" && code != "NONE" {
				out = append(out, code)
			}
		}
	}
	return out
}

// dominantSubject returns the subject shared by a majority of the sampled
// courses, or "" when the list is not subject-specific.
func dominantSubject(courses []string) string {
	n := len(courses)
	if n > sampleSize {
		n = sampleSize
	}
	counts := map[string]int{}
	best, bestCount := "", 0
	for _, c := range courses[:n] {
		s := domain.Subject(c)
		if s == "" {
			continue
		}
		counts[s]++
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	if bestCount*2 <= n {
		return ""
	}
	return best
}

// namesSubject reports whether a requirement refers to subject, by code
// ("CS Elective"), by the initials of its remaining words ("Computer Science
// Elective"), or not at all ("Upper Division Elective").
func namesSubject(name, subject string) bool {
	subject = strings.ToLower(subject)
	var initials strings.Builder
	var specific int
	for _, w := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if genericWords[w] {
			continue
		}
		if w == subject {
			return true
		}
		specific++
		initials.WriteByte(w[0])
	}
	return specific == 0 || initials.String() == subject
}
