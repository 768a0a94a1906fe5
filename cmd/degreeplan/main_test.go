package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"degree-planner/internal/advisor"
	"degree-planner/internal/catalog"
	"degree-planner/internal/config"
	"degree-planner/internal/logger"
	"degree-planner/internal/sftpclient"
)

const transcriptJSON = `{
  "major": "Computer Science",
  "sjsu_courses": [{"code": "ENGL 1A", "grade": "A"}],
  "ap_exams": [{"test": "Calculus AB", "score": 4}]
}`

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// setup writes a small catalog directory and points the command globals at it.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, catalog.CoursesFile), `[
  {"course_id": "CS 46A", "course_name": "Introduction to Programming", "units": 4},
  {"course_id": "CS 46B", "course_name": "Introduction to Data Structures", "units": 4, "prerequisites": ["CS 46A"]},
  {"course_id": "ENGL 1A", "course_name": "First Year Writing", "units": 3, "ge_areas": ["1A"]},
  {"course_id": "MATH 30", "course_name": "Calculus I", "units": 3}
]`)
	writeTestFile(t, filepath.Join(dir, catalog.GEFile), `[
  {"area": "GE_AREA_1A", "title": "English Composition", "course": ["ENGL 1A"], "units": 3}
]`)
	writeTestFile(t, filepath.Join(dir, catalog.ExamsFile), `[
  {"name": "Calculus AB", "sjsu_courses": [["MATH 30"]], "satisfies": ["Area 2"], "units": 3}
]`)
	writeTestFile(t, filepath.Join(dir, catalog.MajorsFile), `[{"major": "Computer Science, BS"}]`)
	writeTestFile(t, filepath.Join(dir, catalog.RoadmapDir, "computer_science,_bs.json"), `[
  {"name": "CS_46A", "year": 1, "semester": "Fall", "units": 4},
  {"name": "GE_AREA_1A", "year": 1, "semester": "Fall", "units": 3},
  {"name": "MATH_30", "year": 1, "semester": "Fall", "units": 3},
  {"name": "CS_46B", "year": 1, "semester": "Spring", "units": 4},
  {"name": "Major_Elective", "year": 2, "semester": "Fall", "units": 3}
]`)

	cfg = config.Default()
	cfg.CatalogDir = dir
	cfg.Workers = 2
	log = logger.Nop()
	timeout = time.Minute
	return dir
}

func newTestCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd
}

func TestRunMajors(t *testing.T) {
	setup(t)
	var out bytes.Buffer

	if err := runMajors(newTestCommand(&out), nil); err != nil {
		t.Fatalf("runMajors failed: %v", err)
	}

	expected := "computer_science,_bs\tComputer Science, BS\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestRunMajorsMissingCatalog(t *testing.T) {
	setup(t)
	cfg.CatalogDir = filepath.Join(t.TempDir(), "missing")

	var out bytes.Buffer
	if err := runMajors(newTestCommand(&out), nil); err == nil {
		t.Errorf("Expected error for missing catalog directory")
	}
}

func TestRunPlanText(t *testing.T) {
	setup(t)
	work := t.TempDir()
	transcript := filepath.Join(work, "student.json")
	writeTestFile(t, transcript, transcriptJSON)

	planOpts.transcript = transcript
	planOpts.json = false
	planOpts.csv = filepath.Join(work, "exports", "plan.csv")
	planOpts.xml = filepath.Join(work, "exports", "plan.xml")
	planOpts.sftp = false
	defer func() { planOpts.csv, planOpts.xml = "", "" }()

	var out bytes.Buffer
	if err := runPlan(newTestCommand(&out), nil); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}

	for _, want := range []string{
		"Degree Progress Overview",
		"Major: Computer Science, BS",
		"Units remaining: 11",
		"Semester 1 - ",
		"VALIDATION CHECKLIST",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}

	csvData, err := os.ReadFile(planOpts.csv)
	if err != nil {
		t.Fatalf("Expected CSV export: %v", err)
	}
	if !strings.Contains(string(csvData), "CS 46B") {
		t.Errorf("Expected CSV to contain CS 46B, got %q", csvData)
	}
	if _, err := os.Stat(planOpts.xml); err != nil {
		t.Errorf("Expected XML export: %v", err)
	}
}

func TestRunPlanJSON(t *testing.T) {
	setup(t)
	transcript := filepath.Join(t.TempDir(), "student.json")
	writeTestFile(t, transcript, transcriptJSON)

	planOpts.transcript = transcript
	planOpts.json = true
	defer func() { planOpts.json = false }()

	var out bytes.Buffer
	if err := runPlan(newTestCommand(&out), nil); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}

	var doc advisor.Document
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if doc.RunID == "" {
		t.Errorf("Expected run_id to be set")
	}
	if doc.EstimatedTerms != 2 {
		t.Errorf("Expected 2 estimated semesters, got %d", doc.EstimatedTerms)
	}
}

func TestRunPlanStdin(t *testing.T) {
	setup(t)
	planOpts.transcript = "-"
	defer func() { planOpts.transcript = "" }()

	var out bytes.Buffer
	cmd := newTestCommand(&out)
	cmd.SetIn(strings.NewReader(transcriptJSON))
	if err := runPlan(cmd, nil); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}
	if !strings.Contains(out.String(), "Degree Progress Overview") {
		t.Errorf("Expected text report, got %q", out.String())
	}
}

func TestRunPlanSFTPNotConfigured(t *testing.T) {
	setup(t)
	transcript := filepath.Join(t.TempDir(), "student.json")
	writeTestFile(t, transcript, transcriptJSON)

	planOpts.transcript = transcript
	planOpts.sftp = true
	defer func() { planOpts.sftp = false }()

	var out bytes.Buffer
	err := runPlan(newTestCommand(&out), nil)
	if !errors.Is(err, sftpclient.ErrMissingCredentials) {
		t.Errorf("Expected ErrMissingCredentials, got %v", err)
	}
}

func TestRunPlanUnknownMajor(t *testing.T) {
	setup(t)
	transcript := filepath.Join(t.TempDir(), "student.json")
	writeTestFile(t, transcript, `{"major": "Astrology"}`)
	planOpts.transcript = transcript

	var out bytes.Buffer
	err := runPlan(newTestCommand(&out), nil)
	if !errors.Is(err, catalog.ErrMajorNotFound) {
		t.Errorf("Expected ErrMajorNotFound, got %v", err)
	}
}

func TestRunBatch(t *testing.T) {
	setup(t)
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "plans")
	writeTestFile(t, filepath.Join(in, "alice.json"), transcriptJSON)
	writeTestFile(t, filepath.Join(in, "bob.json"), `{"major": "Astrology"}`)
	writeTestFile(t, filepath.Join(in, "carol.json"), `{not json`)
	writeTestFile(t, filepath.Join(in, "notes.txt"), "ignored")

	batchOpts.dir = in
	batchOpts.out = out
	batchOpts.csv = true
	defer func() { batchOpts.csv = false }()

	var stdout bytes.Buffer
	err := runBatch(newTestCommand(&stdout), nil)
	if err == nil || err.Error() != "batch: 2 transcript(s) failed" {
		t.Errorf("Expected 2 failures, got %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "Planned 1 of 3 transcripts") {
		t.Errorf("Unexpected summary %q", stdout.String())
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	expected := "alice.csv,alice.txt"
	if strings.Join(names, ",") != expected {
		t.Errorf("Expected files %s, got %v", expected, names)
	}
}

func TestApplyFlags(t *testing.T) {
	testCases := []struct {
		name     string
		set      map[string]string
		expected func(c config.Config) bool
	}{
		{
			name:     "nothing set keeps config",
			expected: func(c config.Config) bool { return c.CatalogDir == "data" && c.UnitsPerTerm == 15 },
		},
		{
			name:     "catalog dir clears url",
			set:      map[string]string{"catalog": "elsewhere"},
			expected: func(c config.Config) bool { return c.CatalogDir == "elsewhere" && c.CatalogURL == "" },
		},
		{
			name:     "catalog url",
			set:      map[string]string{"catalog-url": "https://example.com/catalog.json.br"},
			expected: func(c config.Config) bool { return c.CatalogURL == "https://example.com/catalog.json.br" },
		},
		{
			name:     "units",
			set:      map[string]string{"units": "12"},
			expected: func(c config.Config) bool { return c.UnitsPerTerm == 12 },
		},
		{
			name:     "zero units ignored",
			set:      map[string]string{"units": "0"},
			expected: func(c config.Config) bool { return c.UnitsPerTerm == 15 },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.Flags().StringVar(&catalogDir, "catalog", "", "")
			cmd.Flags().StringVar(&catalogURL, "catalog-url", "", "")
			cmd.Flags().Float64Var(&unitsPerTerm, "units", 0, "")
			for k, v := range tc.set {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatalf("set %s: %v", k, err)
				}
			}

			c := config.Default()
			c.CatalogURL = "https://example.com/default.json"
			applyFlags(cmd, &c)
			if !tc.expected(c) {
				t.Errorf("Unexpected config %+v", c)
			}
		})
	}
}

func TestTranscriptFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.JSON", "c.txt"} {
		writeTestFile(t, filepath.Join(dir, name), "{}")
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := transcriptFiles(dir)
	if err != nil {
		t.Fatalf("transcriptFiles failed: %v", err)
	}
	expected := []string{filepath.Join(dir, "a.JSON"), filepath.Join(dir, "b.json")}
	if strings.Join(files, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected %v, got %v", expected, files)
	}

	if _, err := transcriptFiles(filepath.Join(dir, "missing")); err == nil {
		t.Errorf("Expected error for missing directory")
	}
}

func TestReportName(t *testing.T) {
	res := advisor.Result{Summary: advisor.Summary{RunID: "abc"}}
	testCases := []struct {
		asJSON   bool
		expected string
	}{
		{false, "plan-abc.txt"},
		{true, "plan-abc.json"},
	}
	for _, tc := range testCases {
		if got := reportName(res, tc.asJSON); got != tc.expected {
			t.Errorf("reportName(%v) = %q, want %q", tc.asJSON, got, tc.expected)
		}
	}
}
