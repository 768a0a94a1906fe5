package prereq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(e Expression) []Kind {
	out := make([]Kind, 0, len(e))
	for _, g := range e {
		out = append(out, g.Effective())
	}
	return out
}

func optionsOf(e Expression) [][][]string {
	out := make([][][]string, 0, len(e))
	for _, g := range e {
		out = append(out, g.Options)
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		kinds   []Kind
		options [][][]string
	}{
		{
			name:    "nil",
			raw:     nil,
			kinds:   []Kind{},
			options: [][][]string{},
		},
		{
			name:    "single string",
			raw:     "CS 046A",
			kinds:   []Kind{Single},
			options: [][][]string{{{"CS 46A"}}},
		},
		{
			name:    "markers start new groups",
			raw:     []any{"||CS 46A", "CS 49J", "&&MATH 30", "MATH 31"},
			kinds:   []Kind{Any, All},
			options: [][][]string{{{"CS 46A"}, {"CS 49J"}}, {{"MATH 30"}, {"MATH 31"}}},
		},
		{
			name:    "unmarked tokens form a conjunction",
			raw:     []string{"MATH 30", "PHYS 50"},
			kinds:   []Kind{All},
			options: [][][]string{{{"MATH 30"}, {"PHYS 50"}}},
		},
		{
			name:    "single token with co-listed codes is promoted to any",
			raw:     []string{"CS 146/CMPE 126"},
			kinds:   []Kind{Any},
			options: [][][]string{{{"CS 146", "CMPE 126"}}},
		},
		{
			name:    "inline or phrase",
			raw:     []string{"MATH 30 or MATH 30P"},
			kinds:   []Kind{Any},
			options: [][][]string{{{"MATH 30"}, {"MATH 30P"}}},
		},
		{
			name:    "bare markers",
			raw:     []string{"CS 46A", "OR", "CS 49J", "CS 46B"},
			kinds:   []Kind{Single, Any},
			options: [][][]string{{{"CS 46A"}}, {{"CS 49J"}, {"CS 46B"}}},
		},
		{
			name:    "nested list is an independent group",
			raw:     []any{"MATH 42", []any{"||CS 46B", "||CS 49J"}},
			kinds:   []Kind{Single, Any},
			options: [][][]string{{{"MATH 42"}}, {{"CS 46B"}, {"CS 49J"}}},
		},
		{
			name:    "annotations are stripped",
			raw:     []string{"MAJOR:CS_ONLY CS_46B (must be completed at same school)"},
			kinds:   []Kind{Single},
			options: [][][]string{{{"CS 46B"}}},
		},
		{
			name:    "groups without codes are dropped",
			raw:     []any{"instructor consent", "||NONE"},
			kinds:   []Kind{},
			options: [][][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := Parse(tt.raw)
			assert.Equal(t, tt.kinds, kindsOf(expr))
			if diff := cmp.Diff(tt.options, optionsOf(expr)); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractCodes(t *testing.T) {
	assert.Equal(t, []string{"CS 46A", "CS 49J"}, ExtractCodes("cs046a / CS 49J / CS 46A"))
	assert.Empty(t, ExtractCodes("Upper division standing"))
}

func TestStripAnnotations(t *testing.T) {
	assert.Equal(t, "CS 46A", StripAnnotations("Prerequisite: CS_46A WITH_C_OR_BETTER"))
	assert.Equal(t, "MATH 30", StripAnnotations("MATH_30 (or equivalent)"))
}

func TestExpressionSatisfied(t *testing.T) {
	expr := Parse([]any{"MATH 30", []any{"||CS 46B", "||CS 49J"}})
	require.Len(t, expr, 2)

	has := SetHas(map[string]bool{"MATH 30": true})
	assert.False(t, expr.Satisfied(has))

	unmet := expr.Unmet(has)
	require.Len(t, unmet, 1)
	assert.Equal(t, [][]string{{"CS 46B"}, {"CS 49J"}}, unmet[0].Options)

	has = SetHas(map[string]bool{"MATH 30": true, "CS 49J": true})
	assert.True(t, expr.Satisfied(has))
	assert.Empty(t, expr.Unmet(has))
}

func TestAllGroupUnmetListsOnlyMissingOptions(t *testing.T) {
	expr := Parse([]string{"&&MATH 30", "MATH 31", "MATH 32"})
	unmet := expr.Unmet(SetHas(map[string]bool{"MATH 31": true}))
	require.Len(t, unmet, 1)
	assert.Equal(t, [][]string{{"MATH 30"}, {"MATH 32"}}, unmet[0].Options)
}

func TestDescribeAndCodes(t *testing.T) {
	expr := Parse([]any{"||MATH 30", "MATH 30P", "&&CS 46A", "CS 46B"})
	assert.Equal(t, []string{"MATH 30 OR MATH 30P", "CS 46A AND CS 46B"}, expr.Describe())
	assert.Equal(t, []string{"MATH 30", "MATH 30P", "CS 46A", "CS 46B"}, expr.Codes())
}
