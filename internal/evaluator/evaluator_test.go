package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
	"degree-planner/internal/ledger"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(catalog.Data{
		Courses: []catalog.CourseRecord{
			{CourseID: "CS 46A", CourseName: "Intro to Programming", Units: 4},
			{CourseID: "CS 46B", CourseName: "Data Structures", Units: 4, Prerequisites: []any{"CS 46A", "||MATH 30", "MATH 30X"}},
			{CourseID: "CS 49J", CourseName: "Programming in Java", Units: 3},
		},
		GEAreas: []catalog.GEAreaRecord{
			{Area: "GE_AREA_3", Title: "Arts", Courses: []string{"ART 10", "MUSC 10"}, Units: 3},
		},
	})
}

func course(code string, alts ...string) domain.Requirement {
	return domain.Requirement{ID: domain.Slug(code), DisplayName: code, Type: domain.TypeCourse, Code: code, Alternatives: alts, Units: 3}
}

func TestCourseFulfilledByAlternative(t *testing.T) {
	rec := ledger.NewRecord()
	rec.Add(domain.Completion{Code: "CS 49J", Title: "Programming in Java", Units: 3, Source: domain.SourceNative, Detail: "SJSU coursework"}, nil, nil)

	e := New(testCatalog(), nil)
	res := e.Evaluate(course("CS 46B", "CS 49J"), rec)

	assert.Equal(t, StatusFulfilled, res.Status)
	assert.Equal(t, "CS 49J", res.SatisfiedBy)
	assert.Equal(t, "SJSU", res.Source)
	assert.Equal(t, []string{"CS 49J"}, res.Alternatives)

	a := e.Analyze([]domain.Requirement{course("CS 46B", "CS 49J")}, rec)
	assert.Len(t, a.Fulfilled, 1)
	assert.Empty(t, a.Remaining, "an alternative never also surfaces as remaining")
}

func TestCourseInProgress(t *testing.T) {
	rec := ledger.NewRecord()
	rec.MarkInProgress("CS 46B")

	res := New(testCatalog(), nil).Evaluate(course("CS 46B", "CS 49J"), rec)

	assert.Equal(t, StatusInProgress, res.Status)
	assert.Equal(t, "CS 46B", res.SelectedCourse)
	assert.Equal(t, "Data Structures", res.Title)
	assert.Equal(t, []string{"CS 49J"}, res.Alternatives)
}

func TestCourseRemainingSurfacesPrerequisites(t *testing.T) {
	res := New(testCatalog(), nil).Evaluate(course("CS 46B", "CS 49J"), ledger.NewRecord())

	assert.Equal(t, StatusRemaining, res.Status)
	assert.Equal(t, "CS 46B", res.PreferredCourse)
	assert.Equal(t, 4.0, res.Units)
	assert.Equal(t, []string{"CS 46A", "MATH 30 OR MATH 30X"}, res.Prerequisites)
}

func TestCourseRemainingSingleCodeHasNoPreference(t *testing.T) {
	res := New(testCatalog(), nil).Evaluate(course("CS 46A"), ledger.NewRecord())

	assert.Equal(t, StatusRemaining, res.Status)
	assert.Empty(t, res.PreferredCourse)
	assert.Equal(t, "Intro to Programming", res.Title)
	assert.Equal(t, 4.0, res.Units)
}

func TestCourseRemainingUnknownToCatalog(t *testing.T) {
	res := New(testCatalog(), nil).Evaluate(course("PHIL 10"), ledger.NewRecord())

	assert.Equal(t, StatusRemaining, res.Status)
	assert.Empty(t, res.PreferredCourse)
	assert.Equal(t, 3.0, res.Units)
}

func TestGEScenario(t *testing.T) {
	req := domain.Requirement{ID: "ge", DisplayName: "GE X and Y", Type: domain.TypeGE, GEAreas: []string{"GE_AREA_X", "GE_AREA_Y"}}
	e := New(testCatalog(), nil)

	rec := ledger.NewRecord()
	rec.AddAreas(domain.SourceTransfer, []string{"GE_AREA_X"}, nil)
	assert.Equal(t, StatusRemaining, e.Evaluate(req, rec).Status)

	rec.AddAreas(domain.SourceNative, []string{"GE_AREA_Y"}, nil)
	res := e.Evaluate(req, rec)
	assert.Equal(t, StatusFulfilled, res.Status)
	assert.Equal(t, "CC, SJSU", res.Source)
}

func TestGEInstitutionalAnyMode(t *testing.T) {
	e := New(testCatalog(), nil)
	rec := ledger.NewRecord()
	rec.AddAreas(domain.SourceExam, nil, []string{"US1"})

	testCases := []struct {
		display string
		want    Status
	}{
		{"US1 or US2", StatusFulfilled},
		{"US1 and US2", StatusRemaining},
		{"Core US", StatusRemaining},
	}
	for _, tc := range testCases {
		t.Run(tc.display, func(t *testing.T) {
			req := domain.Requirement{DisplayName: tc.display, Type: domain.TypeGE, InstitutionalAreas: []string{"US1", "US2"}}
			assert.Equal(t, tc.want, e.Evaluate(req, rec).Status)
		})
	}
}

func TestGERemainingFallsBackToGECatalog(t *testing.T) {
	req := domain.Requirement{DisplayName: "GE AREA 3", Type: domain.TypeGE, GEAreas: []string{"GE_AREA_3"}}

	res := New(testCatalog(), nil).Evaluate(req, ledger.NewRecord())

	assert.Equal(t, StatusRemaining, res.Status)
	assert.Equal(t, []string{"ART 10", "MUSC 10"}, res.SuggestedCourses)
	assert.Equal(t, 3.0, res.Units)
}

func TestGERemainingPrefersMajorCatalog(t *testing.T) {
	mc := &catalog.MajorCatalog{OptionalSequences: []catalog.OptionalSequence{
		{Name: "Science Electives", Options: [][]string{{"PHYS 50", "||PHYS 51"}, {"NONE"}}},
	}}
	req := domain.Requirement{DisplayName: "GE AREA 5B", Type: domain.TypeGE, GEAreas: []string{"GE_AREA_5B"}}

	res := New(testCatalog(), mc).Evaluate(req, ledger.NewRecord())

	assert.Equal(t, []string{"PHYS 50", "PHYS 51"}, res.SuggestedCourses)
}

func TestInformationalTypes(t *testing.T) {
	e := New(testCatalog(), nil)
	rec := ledger.NewRecord()

	activity := e.Evaluate(domain.Requirement{DisplayName: "Physical Education Activity", Type: domain.TypeActivity}, rec)
	assert.Equal(t, StatusInformational, activity.Status)
	assert.Equal(t, "Physical Education Activity", activity.Detail)

	milestone := e.Evaluate(domain.Requirement{DisplayName: "Apply for Graduation", Type: domain.TypeMilestone}, rec)
	assert.Equal(t, StatusInformational, milestone.Status)
	assert.Equal(t, milestoneAdvice, milestone.Detail)

	elective := e.Evaluate(domain.Requirement{DisplayName: "Elective", Type: domain.TypeElective}, rec)
	assert.Equal(t, StatusRemaining, elective.Status)
	assert.Equal(t, ElectiveAdvice, elective.Detail)

	a := e.Analyze([]domain.Requirement{
		{DisplayName: "Physical Education Activity", Type: domain.TypeActivity},
		{DisplayName: "Elective", Type: domain.TypeElective},
	}, rec)
	require.Len(t, a.Fulfilled, 1)
	require.Len(t, a.Remaining, 1)
}

func TestUnits(t *testing.T) {
	cat := testCatalog()

	testCases := []struct {
		name string
		req  domain.Requirement
		want float64
	}{
		{"catalog course", course("CS 46A"), 4},
		{"alternative in catalog", course("PHIL 10", "CS 49J"), 3},
		{"unknown course uses roadmap", domain.Requirement{Type: domain.TypeCourse, Code: "PHIL 10", Units: 2}, 2},
		{"ge catalog", domain.Requirement{Type: domain.TypeGE, GEAreas: []string{"GE_AREA_3"}, Units: 6}, 3},
		{"default", domain.Requirement{Type: domain.TypeElective}, domain.DefaultUnits},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Units(cat, tc.req))
		})
	}
}
