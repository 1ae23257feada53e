// Package metrics records pipeline counters on a private Prometheus registry
// and exports them as a node_exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Conversion results used as the result label.
const (
	ResultConverted = "converted"
	ResultReused    = "reused"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
)

// Recorder holds one run's metrics. A nil Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	labelsDiscovered   prometheus.Counter
	audioMissing       prometheus.Counter
	conversions        *prometheus.CounterVec
	records            *prometheus.CounterVec
	lastRun            prometheus.Gauge
	conversionDuration prometheus.Histogram
}

// New builds a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		labelsDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpusprep_labels_discovered_total",
			Help: "Label files found during discovery",
		}),
		audioMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpusprep_audio_missing_total",
			Help: "Label files whose audio file was not found",
		}),
		// result: converted, reused, failed, skipped
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corpusprep_conversions_total",
			Help: "Transcript items processed, by result",
		}, []string{"result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corpusprep_records_total",
			Help: "Manifest records written, by dataset",
		}, []string{"dataset"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "corpusprep_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		conversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corpusprep_conversion_duration_seconds",
			Help:    "Time spent processing one transcript item",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
	r.registry.MustRegister(
		r.labelsDiscovered,
		r.audioMissing,
		r.conversions,
		r.records,
		r.lastRun,
		r.conversionDuration,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// LabelsDiscovered adds n discovered label files.
func (r *Recorder) LabelsDiscovered(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.labelsDiscovered.Add(float64(n))
}

// AudioMissing adds n label files without audio.
func (r *Recorder) AudioMissing(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.audioMissing.Add(float64(n))
}

// Conversion records one processed item and how long it took.
func (r *Recorder) Conversion(result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.conversions.WithLabelValues(result).Inc()
	if result != ResultSkipped {
		r.conversionDuration.Observe(elapsed.Seconds())
	}
}

// Records adds n manifest records for dataset.
func (r *Recorder) Records(dataset string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.records.WithLabelValues(dataset).Add(float64(n))
}

// MarkRun stamps the run completion time.
func (r *Recorder) MarkRun(at time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
