// Package prereq models prerequisite and equivalence expressions over course codes.
//
// An Expression is a conjunction of groups. Each group is ALL, ANY or SINGLE over an
// ordered list of options, and each option lists alternative spellings of one course
// (co-listed sections). The "||" / "&&" prefixes of the catalog data are only
// understood by Parse; everything downstream works on the tagged form.
package prereq

import (
	"strings"

	"degree-planner/internal/domain"
)

// Kind is the boolean relation of a group.
type Kind int

const (
	Single Kind = iota
	All
	Any
)

func (k Kind) String() string {
	switch k {
	case All:
		return "ALL"
	case Any:
		return "ANY"
	default:
		return "SINGLE"
	}
}

// Group is one requirement group. Options never contains an empty option list.
type Group struct {
	Kind    Kind
	Tokens  []string
	Options [][]string
}

// Effective resolves SINGLE: a single token that yields several codes (or several
// options) is read as a disjunction.
func (g Group) Effective() Kind {
	if g.Kind != Single {
		return g.Kind
	}
	if len(g.Options) > 1 || (len(g.Options) == 1 && len(g.Options[0]) > 1) {
		return Any
	}
	return Single
}

// Satisfied reports whether the group holds given a membership test for codes.
func (g Group) Satisfied(has func(code string) bool) bool {
	if g.Effective() == Any {
		for _, opt := range g.Options {
			if optionMet(opt, has) {
				return true
			}
		}
		return false
	}
	for _, opt := range g.Options {
		if !optionMet(opt, has) {
			return false
		}
	}
	return true
}

// Unmet returns the options that keep the group from holding: all options for a
// disjunction, only the missing ones otherwise.
func (g Group) Unmet(has func(code string) bool) [][]string {
	if g.Satisfied(has) {
		return nil
	}
	if g.Effective() == Any {
		return g.Options
	}
	var out [][]string
	for _, opt := range g.Options {
		if !optionMet(opt, has) {
			out = append(out, opt)
		}
	}
	return out
}

// Describe renders the group for humans ("CS 46A or CS 49J AND MATH 30").
func (g Group) Describe() string {
	segments := make([]string, 0, len(g.Options))
	for _, opt := range g.Options {
		segments = append(segments, strings.Join(opt, " or "))
	}
	if g.Effective() == Any {
		return strings.Join(segments, " OR ")
	}
	return strings.Join(segments, " AND ")
}

func optionMet(opt []string, has func(string) bool) bool {
	for _, code := range opt {
		if has(code) {
			return true
		}
	}
	return false
}

// Expression is an ordered conjunction of groups. It is read-only once parsed.
type Expression []Group

// Satisfied reports whether every group holds.
func (e Expression) Satisfied(has func(code string) bool) bool {
	for _, g := range e {
		if !g.Satisfied(has) {
			return false
		}
	}
	return true
}

// Unmet returns the groups that do not hold, each trimmed to its unmet options.
func (e Expression) Unmet(has func(code string) bool) []Group {
	var out []Group
	for _, g := range e {
		if missing := g.Unmet(has); len(missing) > 0 {
			out = append(out, Group{Kind: g.Kind, Tokens: g.Tokens, Options: missing})
		}
	}
	return out
}

// Describe renders one line per group.
func (e Expression) Describe() []string {
	out := make([]string, 0, len(e))
	for _, g := range e {
		if d := g.Describe(); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Codes lists every course code referenced by the expression, in order, once.
func (e Expression) Codes() []string {
	var out []string
	seen := map[string]bool{}
	for _, g := range e {
		for _, opt := range g.Options {
			for _, code := range opt {
				if !seen[code] {
					seen[code] = true
					out = append(out, code)
				}
			}
		}
	}
	return out
}

// SetHas adapts a set to the membership test used by Satisfied and Unmet.
func SetHas(set map[string]bool) func(string) bool {
	return func(code string) bool { return set[domain.NormalizeCode(code)] }
}
