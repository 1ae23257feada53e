package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"corpusprep/internal/fileutil"
	"corpusprep/internal/logging"
	"corpusprep/internal/manifest"
	"corpusprep/internal/pathmap"
	"corpusprep/internal/wavconv"
)

// Outcome reports what Process did with the audio.
type Outcome int

const (
	// OutcomeConverted means a new WAV file was written.
	OutcomeConverted Outcome = iota
	// OutcomeReused means the WAV already existed and was left untouched.
	OutcomeReused
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeReused:
		return "reused"
	default:
		return "unknown"
	}
}

// Processor converts label/audio pairs into manifest records.
type Processor struct {
	Params wavconv.Params
	Logger *slog.Logger
}

// Process parses labelPath, ensures the matching WAV exists, and returns its
// manifest record.
func (p *Processor) Process(ctx context.Context, labelPath string) (manifest.Record, Outcome, error) {
	if err := ctx.Err(); err != nil {
		return manifest.Record{}, OutcomeConverted, err
	}
	label, err := ParseLabel(labelPath)
	if err != nil {
		return manifest.Record{}, OutcomeConverted, err
	}

	audioPath := pathmap.AudioPath(labelPath)
	wavPath, err := filepath.Abs(pathmap.WAVPath(audioPath))
	if err != nil {
		return manifest.Record{}, OutcomeConverted, fmt.Errorf("resolve wav path: %w", err)
	}

	outcome := OutcomeReused
	exists, err := fileutil.Exists(wavPath)
	if err != nil {
		return manifest.Record{}, OutcomeConverted, fmt.Errorf("stat wav: %w", err)
	}
	if !exists {
		res, err := wavconv.ConvertFile(audioPath, wavPath, p.params())
		if err != nil {
			return manifest.Record{}, OutcomeConverted, err
		}
		outcome = OutcomeConverted
		if res.DroppedBytes > 0 {
			p.logger().Debug("dropped trailing partial frame",
				logging.String("audio", audioPath),
				logging.Int("bytes", res.DroppedBytes),
			)
		}
	}

	return manifest.Record{
		AudioFilepath: wavPath,
		Duration:      label.Duration,
		Text:          label.Text,
	}, outcome, nil
}

func (p *Processor) params() wavconv.Params {
	if p.Params == (wavconv.Params{}) {
		return wavconv.DefaultParams
	}
	return p.Params
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return logging.NewNop()
	}
	return p.Logger
}
