package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"corpusprep/internal/archive"
	"corpusprep/internal/catalog"
	"corpusprep/internal/config"
	"corpusprep/internal/ledger"
	"corpusprep/internal/logging"
	"corpusprep/internal/metrics"
	"corpusprep/internal/pipeline"
	"corpusprep/internal/preflight"
	"corpusprep/internal/services"
	"corpusprep/internal/wavconv"
)

type runFlags struct {
	dataSets    string
	training    bool
	workers     int
	skipFailed  bool
	sort        bool
	resume      bool
	extractor   string
	noPreflight bool
	noProgress  bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract, convert, and write manifests for the selected datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg, flags); err != nil {
				return err
			}
			return runPipeline(cmd, cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.dataSets, "data-sets", "", "Group name (ALL, FINANCE) or comma-separated categories")
	cmd.Flags().BoolVar(&flags.training, "training-set", true, "Process the training split (false for validation)")
	cmd.Flags().IntVarP(&flags.workers, "num-workers", "j", 0, "Concurrent conversions")
	cmd.Flags().BoolVar(&flags.skipFailed, "skip-failed", false, "Skip labels that fail instead of aborting")
	cmd.Flags().BoolVar(&flags.sort, "sort", false, "Sort manifest records by audio path")
	cmd.Flags().BoolVar(&flags.resume, "resume", false, "Seed manifest_all.json with categories from earlier runs")
	cmd.Flags().StringVar(&flags.extractor, "extractor", "", "Archive extractor: unzip or builtin")
	cmd.Flags().BoolVar(&flags.noPreflight, "no-preflight", false, "Skip preflight checks")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the interactive progress bar")
	return cmd
}

// applyRunFlags overlays explicitly set flags on the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	changed := cmd.Flags().Changed
	if changed("data-sets") {
		cfg.Pipeline.DataSets = strings.TrimSpace(flags.dataSets)
	}
	if changed("training-set") {
		cfg.Pipeline.TrainingSet = flags.training
	}
	if changed("num-workers") {
		cfg.Pipeline.NumWorkers = flags.workers
	}
	if changed("skip-failed") {
		cfg.Pipeline.SkipFailed = flags.skipFailed
	}
	if changed("sort") {
		cfg.Pipeline.SortManifest = flags.sort
	}
	if changed("resume") {
		cfg.Pipeline.Resume = flags.resume
	}
	if changed("extractor") {
		cfg.Archive.Extractor = strings.ToLower(strings.TrimSpace(flags.extractor))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.RequireDataRoot()
}

func runPipeline(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	categories := catalog.Default().Expand(cfg.Pipeline.DataSets)
	if len(categories) == 0 {
		return fmt.Errorf("pipeline.data_sets %q names no categories", cfg.Pipeline.DataSets)
	}

	if !flags.noPreflight {
		if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
			for _, r := range failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", r.Name, r.Detail)
			}
			return fmt.Errorf("%d preflight check(s) failed; run 'corpusprep check' for details", len(failed))
		}
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	extractor, err := archive.New(cfg.Archive.Extractor, cfg.Archive.UnzipBinary)
	if err != nil {
		return err
	}

	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer store.Close()

	recorder := metrics.New()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := uuid.NewString()
	runCtx = services.WithRunID(runCtx, runID)

	logging.WithContext(runCtx, logger).Info("run starting",
		logging.String("data_root", cfg.Paths.DataRoot),
		logging.Int("categories", len(categories)),
		logging.Bool("training", cfg.Pipeline.TrainingSet),
		logging.Int("workers", cfg.Pipeline.NumWorkers),
		logging.String("extractor", extractor.Name()),
	)

	opts := pipeline.Options{
		DataRoot:   cfg.Paths.DataRoot,
		Categories: categories,
		Training:   cfg.Pipeline.TrainingSet,
		Workers:    cfg.Pipeline.NumWorkers,
		Audio: wavconv.Params{
			Channels:   cfg.Audio.Channels,
			BitDepth:   cfg.Audio.BitDepth,
			SampleRate: cfg.Audio.SampleRate,
		},
		Extractor:  extractor,
		Store:      store,
		Metrics:    recorder,
		Logger:     logger,
		SkipFailed: cfg.Pipeline.SkipFailed,
		Sort:       cfg.Pipeline.SortManifest,
		Resume:     cfg.Pipeline.Resume,
	}
	stderr := cmd.ErrOrStderr()
	if !flags.noProgress && isTerminal(stderr) {
		opts.Progress = newBarProgress(stderr)
	}

	summary, runErr := pipeline.Run(runCtx, opts)

	if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logging.WarnWithContext(logger, "metrics textfile not written", "metrics_textfile",
			logging.Error(err),
			logging.String("path", cfg.Metrics.Textfile),
		)
	}

	out := cmd.OutOrStdout()
	if len(summary.Datasets) > 0 {
		printRunSummary(out, summary)
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(out, "Run %s complete\n", runID)
	return nil
}

func printRunSummary(out io.Writer, summary pipeline.Summary) {
	rows := make([][]string, 0, len(summary.Datasets))
	for _, d := range summary.Datasets {
		rows = append(rows, []string{
			d.Category,
			strconv.Itoa(d.Labels),
			strconv.Itoa(d.MissingAudio),
			strconv.Itoa(d.Converted),
			strconv.Itoa(d.Reused),
			strconv.Itoa(d.Skipped),
			strconv.Itoa(d.Records),
			formatHours(d.Duration),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Category", "Labels", "Missing", "Converted", "Reused", "Skipped", "Records", "Hours"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	if summary.Resumed > 0 {
		fmt.Fprintf(out, "Resumed %d records from earlier runs\n", summary.Resumed)
	}
	if summary.ManifestAll != "" {
		fmt.Fprintf(out, "Manifest: %s (%d records)\n", summary.ManifestAll, summary.Cumulative)
	}
}

func formatHours(seconds float64) string {
	return strconv.FormatFloat(seconds/3600, 'f', 2, 64)
}
