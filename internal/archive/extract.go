package archive

import (
	"context"
	"log/slog"

	"corpusprep/internal/fileutil"
	"corpusprep/internal/logging"
	"corpusprep/internal/services"
)

// Extractor unpacks a zip archive into a destination directory.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, archivePath, destDir string) error
}

// New returns the extractor registered under name ("unzip" or "builtin").
func New(name, unzipBinary string) (Extractor, error) {
	switch name {
	case "", "unzip":
		return NewUnzip(unzipBinary), nil
	case "builtin":
		return NewBuiltin(), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "archive", "select extractor", name, nil)
	}
}

// EnsureExtracted unpacks archivePath into destDir unless destDir already
// exists. The directory's contents are not verified. Extraction failures are
// logged as warnings and reported as false; they never abort the caller.
func EnsureExtracted(ctx context.Context, ex Extractor, archivePath, destDir string, logger *slog.Logger) bool {
	if logger == nil {
		logger = logging.NewNop()
	}
	exists, err := fileutil.Exists(destDir)
	if err == nil && exists {
		logger.Debug("archive already extracted", logging.String("dest", destDir))
		return false
	}

	logger.Info("extracting archive",
		logging.String("archive", archivePath),
		logging.String("dest", destDir),
		logging.String("extractor", ex.Name()),
	)
	if err := ex.Extract(ctx, archivePath, destDir); err != nil {
		logging.WarnWithContext(logger, "already extracted or unavailable", "archive_extract",
			logging.String("archive", archivePath),
			logging.String(logging.FieldErrorHint, "check the archive exists and the extractor is installed"),
			logging.String(logging.FieldImpact, "dataset processed from whatever is already on disk"),
			logging.Error(err),
		)
		return false
	}
	return true
}
