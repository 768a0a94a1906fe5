package domain

import (
	"reflect"
	"testing"
)

func TestSplitCourseAreas(t *testing.T) {
	ge, ai := SplitCourseAreas([]string{"GE_AREA_1A", "Area 3", "US1"})

	expectedGE := []string{"GE_AREA_1A", "GE_AREA_3"}
	if !reflect.DeepEqual(ge, expectedGE) {
		t.Errorf("Expected GE %v, got %v", expectedGE, ge)
	}
	if !reflect.DeepEqual(ai, []string{"US1"}) {
		t.Errorf("Expected institutional [US1], got %v", ai)
	}
}

func TestRequirementAreas(t *testing.T) {
	ge, ai := RequirementAreas([]string{"GE_AREA_2", "US_1_2"})
	if !reflect.DeepEqual(ge, []string{"GE_AREA_2"}) {
		t.Errorf("Expected GE [GE_AREA_2], got %v", ge)
	}
	if !reflect.DeepEqual(ai, []string{"US1", "US2"}) {
		t.Errorf("Expected institutional [US1 US2], got %v", ai)
	}
}

func TestExamArea(t *testing.T) {
	testCases := []struct {
		token         string
		tags          []string
		institutional bool
		ok            bool
	}{
		{"Area 4", []string{"GE_AREA_4"}, false, true},
		{"GE_AREA_5B", []string{"GE_AREA_5B"}, false, true},
		{"US1", []string{"US1"}, true, true},
		{"US 2", []string{"US2"}, true, true},
		{"US_2_3", []string{"US2", "US3"}, true, true},
		{"US history", nil, true, false},
		{"Elective credit", nil, false, false},
	}

	for _, tc := range testCases {
		tags, inst, ok := ExamArea(tc.token)
		if !reflect.DeepEqual(tags, tc.tags) || inst != tc.institutional || ok != tc.ok {
			t.Errorf("ExamArea(%q) = (%v, %v, %v), want (%v, %v, %v)", tc.token, tags, inst, ok, tc.tags, tc.institutional, tc.ok)
		}
	}
}

func TestRequirementTermIndex(t *testing.T) {
	testCases := []struct {
		year     int
		semester string
		expected int
	}{
		{1, "Fall", 0},
		{1, "Spring", 1},
		{2, "Fall", 2},
		{2, "Summer", 3},
		{3, "Unknown", 4},
		{0, "Spring", 1},
	}

	for _, tc := range testCases {
		r := Requirement{Year: tc.year, TermOrder: TermOrder(tc.semester)}
		if got := r.TermIndex(); got != tc.expected {
			t.Errorf("TermIndex(year=%d, %s) = %d, want %d", tc.year, tc.semester, got, tc.expected)
		}
	}
}

func TestRequirementCodes(t *testing.T) {
	r := Requirement{Code: "CS 46A", Alternatives: []string{"CS 46A", "CS 49J"}}
	if got := r.Codes(); !reflect.DeepEqual(got, []string{"CS 46A", "CS 49J"}) {
		t.Errorf("Expected [CS 46A CS 49J], got %v", got)
	}
}
