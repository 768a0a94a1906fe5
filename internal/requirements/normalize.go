// Package requirements turns a major's roadmap into typed, de-duplicated
// requirements.
package requirements

import (
	"fmt"
	"sort"
	"strings"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
)

// Normalize classifies every roadmap entry. Entries with an empty name are
// skipped and repeated course or GE entries keep only their first occurrence.
func Normalize(entries []catalog.RoadmapEntry) []domain.Requirement {
	var out []domain.Requirement
	seen := map[string]bool{}
	for i, e := range entries {
		req, ok := classify(i, e)
		if !ok {
			continue
		}
		if req.Type == domain.TypeCourse || req.Type == domain.TypeGE {
			key := dedupKey(req)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, req)
	}
	return out
}

func classify(index int, e catalog.RoadmapEntry) (domain.Requirement, bool) {
	tokens := nameTokens(e.Name)
	if len(tokens) == 0 {
		return domain.Requirement{}, false
	}

	display := strings.ReplaceAll(tokens[0], "_", " ")
	if e.Name.List {
		parts := make([]string, len(tokens))
		for i, tok := range tokens {
			parts[i] = strings.ReplaceAll(tok, "_", " ")
		}
		display = strings.Join(parts, " / ")
	}

	req := domain.Requirement{
		ID:          tokens[0],
		DisplayName: display,
		Units:       domain.ParseUnits(e.Units),
		Year:        e.Year,
		TermOrder:   domain.TermOrder(e.Semester),
		Order:       index,
	}
	req.GEAreas, req.InstitutionalAreas = domain.RequirementAreas(e.Name.Tokens)

	var codes []string
	for _, tok := range tokens {
		if !domain.LooksLikeCourse(tok) {
			continue
		}
		if code := domain.NormalizeCode(tok); !contains(codes, code) {
			codes = append(codes, code)
		}
	}

	lower := strings.ToLower(display)
	switch {
	case len(codes) > 0:
		req.Type = domain.TypeCourse
		req.Code = codes[0]
		req.Alternatives = codes[1:]
		req.ID = domain.Slug(codes[0])
	case len(req.GEAreas) > 0 || len(req.InstitutionalAreas) > 0:
		req.Type = domain.TypeGE
	case strings.Contains(lower, "elective"):
		req.Type = domain.TypeElective
	case strings.Contains(lower, "physical education"):
		req.Type = domain.TypeActivity
	case strings.HasPrefix(lower, "ge upper division") || strings.HasPrefix(lower, "upper division ge"):
		req.Type = domain.TypeGE
		if tag := domain.SanitizedTag(display); tag != "" {
			req.GEAreas = []string{tag}
		}
	default:
		req.Type = domain.TypeMilestone
	}
	if len(req.Alternatives) == 0 {
		req.Alternatives = nil
	}
	return req, true
}

// nameTokens strips the "||"/"&&" markers and blank items from a roadmap name.
func nameTokens(n catalog.Name) []string {
	var out []string
	for _, tok := range n.Tokens {
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "||"), "&&")
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func dedupKey(r domain.Requirement) string {
	id := r.Code
	if id == "" {
		id = r.ID
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", r.Type, id, sortedJoin(r.GEAreas), sortedJoin(r.InstitutionalAreas), sortedJoin(r.Alternatives))
}

func sortedJoin(values []string) string {
	s := append([]string(nil), values...)
	sort.Strings(s)
	return strings.Join(s, ",")
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
