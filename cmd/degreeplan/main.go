package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"degree-planner/internal/advisor"
	"degree-planner/internal/catalog"
	"degree-planner/internal/config"
	"degree-planner/internal/httpx"
	"degree-planner/internal/logger"
)

var (
	// Global flags
	catalogDir   string
	catalogURL   string
	unitsPerTerm float64
	verbose      bool
	timeout      time.Duration

	cfg config.Config
	log *logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "degreeplan",
	Short: "Degree progress audit and semester planner",
	Long: `degreeplan reads a student's transcript, evaluates it against the major's
roadmap and proposes a semester-by-semester plan for what remains.

The catalog is read from a directory (--catalog) or fetched as a single
bundle (--catalog-url). Settings come from DEGREEPLAN_CONFIG, then the
environment, then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		applyFlags(cmd, &cfg)

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		if log, err = logger.New(cfg.LogMode, level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// majorsCmd lists the majors the catalog can plan for
var majorsCmd = &cobra.Command{
	Use:   "majors",
	Short: "List the majors available in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runMajors,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog", "", "Catalog directory (default from config: data)")
	rootCmd.PersistentFlags().StringVar(&catalogURL, "catalog-url", "", "Fetch the catalog bundle from this URL instead of a directory")
	rootCmd.PersistentFlags().Float64Var(&unitsPerTerm, "units", 0, "Units per semester (default from config: 15)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Operation timeout")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(majorsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		c.CatalogDir = catalogDir
		c.CatalogURL = ""
	}
	if flags.Changed("catalog-url") {
		c.CatalogURL = catalogURL
	}
	if flags.Changed("units") && unitsPerTerm > 0 {
		c.UnitsPerTerm = unitsPerTerm
	}
}

// loadCatalog reads the catalog named by cfg. Tests replace it.
var loadCatalog = func(ctx context.Context, c config.Config) (*catalog.Catalog, error) {
	if c.CatalogURL != "" {
		client := &http.Client{Timeout: c.HTTPTimeout}
		return catalog.Fetch(ctx, client, c.CatalogURL, httpx.DefaultRetryConfig())
	}
	return catalog.LoadDir(c.CatalogDir)
}

func newAdvisor(ctx context.Context) (*advisor.Advisor, error) {
	start := time.Now()
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("catalog loaded", "dir", cfg.CatalogDir, "url", cfg.CatalogURL, "majors", len(cat.Majors()), "elapsed", time.Since(start))
	return advisor.New(cat, cfg.Planner(), log), nil
}

// commandContext bounds the command's context by --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func runMajors(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	adv, err := newAdvisor(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, m := range adv.Majors() {
		fmt.Fprintf(out, "%s\t%s\n", m.Slug, m.Name)
	}
	return nil
}
