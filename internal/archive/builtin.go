package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"

	"corpusprep/internal/services"
)

// Builtin extracts archives in-process with archive/zip.
type Builtin struct{}

// NewBuiltin returns the in-process extractor.
func NewBuiltin() *Builtin { return &Builtin{} }

// Name identifies the extractor in logs.
func (*Builtin) Name() string { return "builtin" }

// Extract unpacks every entry of archivePath under destDir, overwriting
// existing files. Entries that would land outside destDir are rejected.
func (*Builtin) Extract(ctx context.Context, archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return services.Wrap(services.ErrExternalTool, "archive", "open zip", archivePath, err)
	}
	defer r.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := EntryName(f)
		target, err := safeJoin(root, name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return services.Wrap(services.ErrExternalTool, "archive", "extract entry", name, err)
		}
	}
	return nil
}

// EntryName returns the entry's name as UTF-8. Names that are not valid UTF-8
// are decoded as CP949 (EUC-KR superset). The zip NonUTF8 flag is not trusted
// on its own: Windows archivers leave the UTF-8 bit clear on UTF-8 names too.
func EntryName(f *zip.File) string {
	name := f.Name
	if utf8.ValidString(name) {
		return name
	}
	decoded, err := korean.EUCKR.NewDecoder().String(name)
	if err != nil {
		return name
	}
	return decoded
}

func safeJoin(root, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, "\\", "/")))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", services.Wrap(services.ErrValidation, "archive", "entry path", fmt.Sprintf("%q escapes destination", name), nil)
	}
	target := filepath.Join(root, clean)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", services.Wrap(services.ErrValidation, "archive", "entry path", fmt.Sprintf("%q escapes destination", name), nil)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil { //nolint:gosec
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
