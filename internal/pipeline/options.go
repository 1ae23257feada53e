package pipeline

import (
	"log/slog"

	"corpusprep/internal/archive"
	"corpusprep/internal/catalog"
	"corpusprep/internal/ledger"
	"corpusprep/internal/metrics"
	"corpusprep/internal/wavconv"
)

// DefaultWorkers is the pool size used when Options.Workers is unset.
const DefaultWorkers = 8

// Options configures one run. Zero values fall back to defaults where noted.
type Options struct {
	// DataRoot is the split directory holding 원천데이터 and 라벨링데이터.
	DataRoot   string
	Categories []string
	Training   bool

	// Workers bounds concurrent conversions (default 8).
	Workers int
	// Audio defaults to mono 16-bit 16 kHz.
	Audio wavconv.Params
	// Extractor defaults to the unzip binary.
	Extractor archive.Extractor
	// Catalog defaults to the embedded catalog.
	Catalog *catalog.Catalog

	// Store, Metrics and Progress are optional.
	Store    *ledger.Store
	Metrics  *metrics.Recorder
	Progress Progress
	Logger   *slog.Logger

	// SkipFailed logs and skips items that fail conversion instead of
	// aborting the run.
	SkipFailed bool
	// Sort orders manifest records by audio path instead of completion order.
	Sort bool
	// Resume seeds manifest_all.json with records of categories processed
	// earlier in the same split. Requires Store.
	Resume bool
}

// DatasetSummary reports what happened to one category.
type DatasetSummary struct {
	Category     string
	Split        string
	Extracted    int
	Labels       int
	MissingAudio int
	Converted    int
	Reused       int
	Skipped      int
	Records      int
	Duration     float64
	Manifest     string
}

// Summary reports a whole run.
type Summary struct {
	Datasets    []DatasetSummary
	Resumed     int
	Cumulative  int
	ManifestAll string
}

// Progress receives per-item progress for the category being converted.
// Calls come from a single goroutine.
type Progress interface {
	Start(dataset string, total int)
	Increment()
	Finish()
}
