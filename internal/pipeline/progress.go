package pipeline

import (
	"log/slog"

	"corpusprep/internal/logging"
)

// logProgress reports progress through sampled log lines when no interactive
// progress display is attached.
type logProgress struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	dataset string
	total   int
	done    int
}

func newLogProgress(logger *slog.Logger) *logProgress {
	return &logProgress{logger: logger, sampler: logging.NewProgressSampler(10)}
}

func (p *logProgress) Start(dataset string, total int) {
	p.dataset = dataset
	p.total = total
	p.done = 0
	p.sampler.Reset()
}

func (p *logProgress) Increment() {
	p.done++
	if p.sampler.ShouldLog(p.done, p.total) {
		p.logger.Info("conversion progress",
			logging.String(logging.FieldDataset, p.dataset),
			logging.Int("done", p.done),
			logging.Int("total", p.total),
		)
	}
}

func (p *logProgress) Finish() {}
