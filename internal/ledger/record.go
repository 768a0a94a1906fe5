// Package ledger turns a transcript into the set of courses and areas a student
// holds credit for.
package ledger

import (
	"sort"

	"degree-planner/internal/domain"
)

// Record is the per-student credit ledger. Completed and InProgress never share
// a code.
type Record struct {
	Completed     map[string]domain.Completion
	InProgress    map[string]bool
	GE            map[string]domain.Source // area tag -> first source that satisfied it
	Institutional map[string]domain.Source
}

func NewRecord() *Record {
	return &Record{
		Completed:     map[string]domain.Completion{},
		InProgress:    map[string]bool{},
		GE:            map[string]domain.Source{},
		Institutional: map[string]domain.Source{},
	}
}

// Add records a completion under the source priority rule: a lower-priority
// source never replaces a higher one. Area tags are accumulated either way,
// first writer per tag wins. Reports whether the completion was stored.
func (r *Record) Add(c domain.Completion, ge, institutional []string) bool {
	c.Code = domain.NormalizeCode(c.Code)
	stored := true
	if existing, ok := r.Completed[c.Code]; ok && c.Source.Priority() < existing.Source.Priority() {
		stored = false
	}
	if stored {
		r.Completed[c.Code] = c
		delete(r.InProgress, c.Code)
	}
	r.AddAreas(c.Source, ge, institutional)
	return stored
}

// AddAreas marks area tags satisfied without a course completion.
func (r *Record) AddAreas(src domain.Source, ge, institutional []string) {
	for _, tag := range ge {
		if _, ok := r.GE[tag]; !ok {
			r.GE[tag] = src
		}
	}
	for _, tag := range institutional {
		if _, ok := r.Institutional[tag]; !ok {
			r.Institutional[tag] = src
		}
	}
}

// MarkInProgress adds a course to the in-progress set unless it is already completed.
func (r *Record) MarkInProgress(code string) {
	code = domain.NormalizeCode(code)
	if _, done := r.Completed[code]; !done && code != "" {
		r.InProgress[code] = true
	}
}

func (r *Record) IsCompleted(code string) bool {
	_, ok := r.Completed[domain.NormalizeCode(code)]
	return ok
}

func (r *Record) IsInProgress(code string) bool {
	return r.InProgress[domain.NormalizeCode(code)]
}

// Completion looks up the credit held for a code.
func (r *Record) Completion(code string) (domain.Completion, bool) {
	c, ok := r.Completed[domain.NormalizeCode(code)]
	return c, ok
}

// Available is the set of codes a student has or will have credit for:
// completed plus in progress.
func (r *Record) Available() map[string]bool {
	out := make(map[string]bool, len(r.Completed)+len(r.InProgress))
	for code := range r.Completed {
		out[code] = true
	}
	for code := range r.InProgress {
		out[code] = true
	}
	return out
}

// CompletedUnits sums the units of every completion.
func (r *Record) CompletedUnits() float64 {
	var total float64
	for _, c := range r.Completed {
		total += c.Units
	}
	return total
}

// Completions returns completions ordered by code.
func (r *Record) Completions() []domain.Completion {
	out := make([]domain.Completion, 0, len(r.Completed))
	for _, c := range r.Completed {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// InProgressCodes returns the in-progress set ordered by code.
func (r *Record) InProgressCodes() []string {
	out := make([]string, 0, len(r.InProgress))
	for code := range r.InProgress {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
