package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"corpusprep/internal/fileutil"
	"corpusprep/internal/logging"
	"corpusprep/internal/pathmap"
)

type discovery struct {
	labels  []string
	found   int
	missing int
}

// discover walks labelDir for label files and keeps those whose audio exists.
// Every label without a PCM is logged and counted as missing. It is left out
// unless its WAV was already produced, in which case the WAV is reused. A
// missing labelDir yields nothing.
func discover(ctx context.Context, labelDir string, logger *slog.Logger) (discovery, error) {
	var out discovery
	exists, err := fileutil.Exists(labelDir)
	if err != nil {
		return out, err
	}
	if !exists {
		logging.WarnWithContext(logger, "label directory not found", "discovery",
			logging.String("label_dir", labelDir),
			logging.String(logging.FieldErrorHint, "check the label archive name and data root"),
			logging.String(logging.FieldImpact, "dataset contributes no records"),
		)
		return out, nil
	}

	err = filepath.WalkDir(labelDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), pathmap.LabelExt) {
			return nil
		}
		out.found++
		audio := pathmap.AudioPath(path)
		if ok, _ := isRegular(audio); ok {
			out.labels = append(out.labels, path)
			return nil
		}
		out.missing++
		hint := "label has no matching PCM file; it is left out of the manifest"
		wavExists, _ := fileutil.Exists(pathmap.WAVPath(audio))
		if wavExists {
			hint = "label has no matching PCM file; the existing WAV is reused"
			out.labels = append(out.labels, path)
		}
		logging.ErrorWithContext(logger, "audio file not found", "discovery",
			logging.String("audio", audio),
			logging.String("label", path),
			logging.String(logging.FieldErrorHint, hint),
		)
		return nil
	})
	if err != nil {
		return out, err
	}
	sort.Strings(out.labels)
	return out, nil
}

func isRegular(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
