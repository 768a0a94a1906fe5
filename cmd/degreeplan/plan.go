package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"degree-planner/internal/advisor"
	"degree-planner/internal/export"
	"degree-planner/internal/ledger"
	"degree-planner/internal/sftpclient"
)

var planOpts struct {
	transcript string
	json       bool
	csv        string
	xml        string
	sftp       bool
}

// planCmd plans one transcript
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Audit one transcript and print its semester plan",
	Long: `Builds the degree progress overview for one transcript: fulfilled and
remaining requirements, a semester-by-semester plan, notes and the
validation checklist.

Example:
  degreeplan plan -t transcript.json --csv plan.csv --xml plan.xml --sftp`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOpts.transcript, "transcript", "t", "", "Transcript JSON file, - for stdin (required)")
	planCmd.Flags().BoolVar(&planOpts.json, "json", false, "Print the JSON document instead of the text report")
	planCmd.Flags().StringVar(&planOpts.csv, "csv", "", "Also write the plan as CSV to this path")
	planCmd.Flags().StringVar(&planOpts.xml, "xml", "", "Also write the plan as XML to this path")
	planCmd.Flags().BoolVar(&planOpts.sftp, "sftp", false, "Upload the report and any exports via SFTP")
	planCmd.MarkFlagRequired("transcript")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	t, err := readTranscript(cmd.InOrStdin(), planOpts.transcript)
	if err != nil {
		return err
	}
	adv, err := newAdvisor(ctx)
	if err != nil {
		return err
	}
	res, err := adv.Recommend(t)
	if err != nil {
		return err
	}

	var report bytes.Buffer
	if err := writeReport(&report, res, planOpts.json); err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(report.Bytes()); err != nil {
		return err
	}

	var files []string
	if planOpts.csv != "" {
		if err := writeFile(planOpts.csv, func(w io.Writer) error { return export.WritePlanCSV(w, res) }); err != nil {
			return err
		}
		files = append(files, planOpts.csv)
	}
	if planOpts.xml != "" {
		if err := ensureDir(planOpts.xml); err != nil {
			return err
		}
		if err := export.WritePlanXML(planOpts.xml, res); err != nil {
			return err
		}
		files = append(files, planOpts.xml)
	}

	if !planOpts.sftp {
		return nil
	}
	sc := cfg.SFTP()
	if !sc.Enabled() {
		return sftpclient.ErrMissingCredentials
	}
	name := reportName(res, planOpts.json)
	if err := sftpclient.Upload(ctx, sc, bytes.NewReader(report.Bytes()), name); err != nil {
		return err
	}
	log.Info("uploaded report", "remote", name, "run_id", res.Summary.RunID)
	for _, f := range files {
		if err := sftpclient.UploadFile(ctx, sc, f, filepath.Base(f)); err != nil {
			return err
		}
		log.Info("uploaded export", "remote", filepath.Base(f), "run_id", res.Summary.RunID)
	}
	return nil
}

func readTranscript(stdin io.Reader, path string) (ledger.Transcript, error) {
	if path == "-" {
		return ledger.DecodeTranscript(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return ledger.Transcript{}, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	t, err := ledger.DecodeTranscript(f)
	if err != nil {
		return ledger.Transcript{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// writeReport prints either the JSON document or the text overview followed
// by the validation checklist.
func writeReport(w io.Writer, res advisor.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Document())
	}
	text := advisor.Render(res)
	if res.Summary.ValidationReport != "" {
		text += "\n" + res.Summary.ValidationReport
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// reportName is the remote or on-disk file name of one report.
func reportName(res advisor.Result, asJSON bool) string {
	ext := ".txt"
	if asJSON {
		ext = ".json"
	}
	return "plan-" + res.Summary.RunID + ext
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
