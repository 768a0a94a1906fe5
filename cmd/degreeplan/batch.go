package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"degree-planner/internal/advisor"
	"degree-planner/internal/concurrency"
	"degree-planner/internal/export"
	"degree-planner/internal/ledger"
)

var batchOpts struct {
	dir  string
	out  string
	json bool
	csv  bool
}

// batchCmd plans every transcript of a directory
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Plan every transcript in a directory",
	Long: `Plans each *.json transcript of --dir on a bounded worker pool and writes
one report per transcript into --out, named after the transcript file.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOpts.dir, "dir", "d", "", "Directory of transcript JSON files (required)")
	batchCmd.Flags().StringVarP(&batchOpts.out, "out", "o", "plans", "Output directory")
	batchCmd.Flags().BoolVar(&batchOpts.json, "json", false, "Write JSON documents instead of text reports")
	batchCmd.Flags().BoolVar(&batchOpts.csv, "csv", false, "Also write a CSV plan per transcript")
	batchCmd.MarkFlagRequired("dir")
}

type batchItem struct {
	stem   string
	result advisor.Result
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	paths, err := transcriptFiles(batchOpts.dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(batchOpts.out, 0o755); err != nil {
		return err
	}

	var (
		stems       []string
		transcripts []ledger.Transcript
		failed      int
	)
	for _, p := range paths {
		t, err := readTranscript(nil, p)
		if err != nil {
			log.Warn("skipping transcript", "file", p, "error", err)
			failed++
			continue
		}
		stems = append(stems, stem(p))
		transcripts = append(transcripts, t)
	}

	adv, err := newAdvisor(ctx)
	if err != nil {
		return err
	}
	results, errs := adv.PlanBatch(ctx, transcripts, cfg.Workers)
	skip := map[int]bool{}
	for _, err := range errs {
		var itemErr *concurrency.ItemError
		if errors.As(err, &itemErr) {
			skip[itemErr.Index] = true
			log.Warn("planning failed", "file", stems[itemErr.Index], "error", itemErr.Err)
		}
		failed++
	}

	var items []batchItem
	for i, res := range results {
		if !skip[i] {
			items = append(items, batchItem{stem: stems[i], result: res})
		}
	}
	writeErrs := concurrency.ForEach(ctx, items, concurrency.ParallelOptions{MaxWorkers: cfg.Workers},
		func(ctx context.Context, _ int, it batchItem) error {
			return writeBatchItem(batchOpts.out, it, batchOpts.json, batchOpts.csv)
		})
	for _, err := range writeErrs {
		log.Warn("writing report failed", "error", err)
		failed++
	}

	written := len(items) - len(writeErrs)
	fmt.Fprintf(cmd.OutOrStdout(), "Planned %d of %d transcripts into %s in %s\n",
		written, len(paths), batchOpts.out, time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		return fmt.Errorf("batch: %d transcript(s) failed", failed)
	}
	return nil
}

// transcriptFiles lists the *.json files of dir in name order.
func transcriptFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read transcripts: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeBatchItem(dir string, it batchItem, asJSON, withCSV bool) error {
	ext := ".txt"
	if asJSON {
		ext = ".json"
	}
	if err := writeFile(filepath.Join(dir, it.stem+ext), func(w io.Writer) error {
		return writeReport(w, it.result, asJSON)
	}); err != nil {
		return err
	}
	if !withCSV {
		return nil
	}
	return writeFile(filepath.Join(dir, it.stem+".csv"), func(w io.Writer) error {
		return export.WritePlanCSV(w, it.result)
	})
}
