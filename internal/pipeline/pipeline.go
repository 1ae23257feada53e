package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"corpusprep/internal/archive"
	"corpusprep/internal/catalog"
	"corpusprep/internal/ledger"
	"corpusprep/internal/logging"
	"corpusprep/internal/manifest"
	"corpusprep/internal/metrics"
	"corpusprep/internal/services"
	"corpusprep/internal/transcript"
	"corpusprep/internal/wavconv"
)

// Output names inside the processed root.
const (
	ManifestAllName = "manifest_all.json"
	manifestSuffix  = "_manifest.json"
)

// ManifestName returns the per-category manifest file name.
func ManifestName(category string) string {
	return category + manifestSuffix
}

// OutputRoot returns the processed root for dataRoot.
func OutputRoot(dataRoot string) string {
	return filepath.Clean(dataRoot) + "_Processed"
}

type runner struct {
	opts       Options
	split      string
	outputRoot string
	logger     *slog.Logger
	processor  *transcript.Processor
}

// Run processes every category in opts.Categories sequentially. The first
// category failure stops the run; datasets finished before it keep their
// manifests.
func Run(ctx context.Context, opts Options) (Summary, error) {
	opts, err := normalize(opts)
	if err != nil {
		return Summary{}, err
	}

	split := catalog.Spec{Training: opts.Training}.Split()
	ctx = services.WithSplit(ctx, split)
	r := &runner{
		opts:       opts,
		split:      split,
		outputRoot: OutputRoot(opts.DataRoot),
		logger:     logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "pipeline")),
	}
	r.processor = &transcript.Processor{Params: opts.Audio, Logger: r.logger}

	if err := os.MkdirAll(r.outputRoot, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output root: %w", err)
	}
	lock, err := acquireLock(r.outputRoot)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	summary := Summary{ManifestAll: filepath.Join(r.outputRoot, ManifestAllName)}
	var cumulative []manifest.Record
	if opts.Resume {
		prior, err := opts.Store.Records(ctx, r.split, opts.Categories)
		if err != nil {
			return summary, fmt.Errorf("load earlier records: %w", err)
		}
		cumulative = prior
		summary.Resumed = len(prior)
		r.logger.Info("resuming cumulative manifest", logging.Int("records", len(prior)))
	}

	r.logger.Info("corpus run started",
		logging.String("data_root", opts.DataRoot),
		logging.Int("datasets", len(opts.Categories)),
		logging.Int("workers", opts.Workers),
		logging.String("extractor", opts.Extractor.Name()),
	)

	for _, category := range opts.Categories {
		ds, records, err := r.processDataset(ctx, category)
		summary.Datasets = append(summary.Datasets, ds)
		if err != nil {
			r.markFailed(category, err)
			return summary, err
		}

		cumulative = append(cumulative, records...)
		if err := manifest.WriteFile(summary.ManifestAll, cumulative); err != nil {
			r.markFailed(category, err)
			return summary, err
		}
		summary.Cumulative = len(cumulative)
	}

	r.opts.Metrics.MarkRun(time.Now())
	r.logger.Info("corpus run finished",
		logging.Int("datasets", len(summary.Datasets)),
		logging.Int("records", summary.Cumulative),
		logging.String("manifest", summary.ManifestAll),
	)
	return summary, nil
}

func normalize(opts Options) (Options, error) {
	if strings.TrimSpace(opts.DataRoot) == "" {
		return opts, services.Wrap(services.ErrValidation, "pipeline", "options", "data root is required", nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Audio == (wavconv.Params{}) {
		opts.Audio = wavconv.DefaultParams
	}
	if err := opts.Audio.Validate(); err != nil {
		return opts, err
	}
	if opts.Extractor == nil {
		opts.Extractor = archive.NewUnzip("")
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Resume && opts.Store == nil {
		return opts, services.Wrap(services.ErrConfiguration, "pipeline", "options", "resume requires a ledger", nil)
	}
	return opts, nil
}

func (r *runner) processDataset(ctx context.Context, category string) (DatasetSummary, []manifest.Record, error) {
	key := ledger.Key{Category: category, Split: r.split}
	ds := DatasetSummary{Category: category, Split: r.split}
	logger := r.logger.With(logging.String(logging.FieldDataset, category))
	paths := r.opts.Catalog.Paths(r.opts.DataRoot, catalog.Spec{Category: category, Training: r.opts.Training})

	logger.Info("working on dataset", logging.String("audio_archive", filepath.Base(paths.AudioArchive)))

	if archive.EnsureExtracted(ctx, r.opts.Extractor, paths.AudioArchive, paths.AudioDir, logger) {
		ds.Extracted++
	}
	if archive.EnsureExtracted(ctx, r.opts.Extractor, paths.LabelArchive, paths.LabelDir, logger) {
		ds.Extracted++
	}
	if err := ctx.Err(); err != nil {
		return ds, nil, err
	}
	if err := r.setState(ctx, key, ledger.StateExtracted); err != nil {
		return ds, nil, err
	}

	found, err := discover(ctx, paths.LabelDir, logger)
	if err != nil {
		return ds, nil, fmt.Errorf("discover labels in %s: %w", paths.LabelDir, err)
	}
	ds.Labels = found.found
	ds.MissingAudio = found.missing
	r.opts.Metrics.LabelsDiscovered(found.found)
	r.opts.Metrics.AudioMissing(found.missing)
	if r.opts.Store != nil {
		if err := r.opts.Store.RecordDiscovery(ctx, key, found.found, found.missing); err != nil {
			return ds, nil, err
		}
	}
	logger.Info("labels discovered",
		logging.Int("labels", found.found),
		logging.Int("missing_audio", found.missing),
	)

	records, err := r.convert(ctx, category, found.labels, &ds, logger)
	if err != nil {
		return ds, nil, err
	}
	if r.opts.Sort {
		manifest.SortByPath(records)
	}

	ds.Records = len(records)
	ds.Duration = manifest.TotalDuration(records)
	ds.Manifest = filepath.Join(r.outputRoot, ManifestName(category))
	if err := manifest.WriteFile(ds.Manifest, records); err != nil {
		return ds, nil, err
	}
	if r.opts.Store != nil {
		if err := r.opts.Store.ReplaceRecords(ctx, key, records); err != nil {
			return ds, nil, err
		}
	}
	r.opts.Metrics.Records(category, len(records))

	logger.Info("dataset processed",
		logging.Int("records", ds.Records),
		logging.Int("converted", ds.Converted),
		logging.Int("reused", ds.Reused),
		logging.Int("skipped", ds.Skipped),
		logging.Float64("hours", ds.Duration/3600),
		logging.String("manifest", ds.Manifest),
	)
	return ds, records, nil
}

type itemResult struct {
	record  manifest.Record
	outcome transcript.Outcome
	skipped bool
}

// convert fans labels out over a bounded pool and collects records in
// completion order.
func (r *runner) convert(ctx context.Context, category string, labels []string, ds *DatasetSummary, logger *slog.Logger) ([]manifest.Record, error) {
	progress := r.opts.Progress
	if progress == nil {
		progress = newLogProgress(logger)
	}
	progress.Start(category, len(labels))
	defer progress.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	results := make(chan itemResult, r.opts.Workers)
	records := make([]manifest.Record, 0, len(labels))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for res := range results {
			switch {
			case res.skipped:
				ds.Skipped++
			case res.outcome == transcript.OutcomeConverted:
				ds.Converted++
				records = append(records, res.record)
			default:
				ds.Reused++
				records = append(records, res.record)
			}
			progress.Increment()
		}
	}()

	for _, label := range labels {
		if gctx.Err() != nil {
			break
		}
		label := label
		g.Go(func() error {
			start := time.Now()
			rec, outcome, err := r.processor.Process(gctx, label)
			if err != nil {
				if !r.opts.SkipFailed || gctx.Err() != nil || errors.Is(err, context.Canceled) {
					r.opts.Metrics.Conversion(metrics.ResultFailed, time.Since(start))
					return fmt.Errorf("process %s: %w", label, err)
				}
				r.opts.Metrics.Conversion(metrics.ResultSkipped, 0)
				logging.WarnWithContext(logger, "skipping failed item", "item_skipped",
					logging.String("label", label),
					logging.String("error_kind", services.Kind(err)),
					logging.String(logging.FieldImpact, "item left out of the manifest"),
					logging.Error(err),
				)
				results <- itemResult{skipped: true}
				return nil
			}
			r.opts.Metrics.Conversion(outcome.String(), time.Since(start))
			results <- itemResult{record: rec, outcome: outcome}
			return nil
		})
	}

	err := g.Wait()
	close(results)
	<-collected
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *runner) setState(ctx context.Context, key ledger.Key, state ledger.State) error {
	if r.opts.Store == nil {
		return nil
	}
	return r.opts.Store.SetState(ctx, key, state)
}

// markFailed records the failure with a fresh context so cancellation of the
// run does not also lose the ledger update.
func (r *runner) markFailed(category string, cause error) {
	logging.ErrorWithContext(r.logger, "dataset failed", "dataset_failed",
		logging.String(logging.FieldDataset, category),
		logging.String("error_kind", services.Kind(cause)),
		logging.Error(cause),
	)
	if r.opts.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.opts.Store.MarkFailed(ctx, ledger.Key{Category: category, Split: r.split}, cause); err != nil {
		r.logger.Warn("failed to record dataset failure", logging.Error(err))
	}
}
