package testsupport

import (
	"archive/zip"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"corpusprep/internal/catalog"
)

// Corpus lays out label and audio fixtures the way the source archives unpack.
type Corpus struct {
	t        testing.TB
	Root     string
	Training bool
}

// NewCorpus returns a corpus rooted at root. Nothing is written yet.
func NewCorpus(t testing.TB, root string, training bool) *Corpus {
	t.Helper()
	return &Corpus{t: t, Root: root, Training: training}
}

// Paths returns the archive and directory locations for category.
func (c *Corpus) Paths(category string) catalog.Paths {
	return catalog.Default().Paths(c.Root, catalog.Spec{Category: category, Training: c.Training})
}

// OutputRoot is where processed manifests land.
func (c *Corpus) OutputRoot() string {
	return c.Root + "_Processed"
}

// WriteLabel writes a label file whose recordedTime is stored as given
// (string or number) and returns its path.
func (c *Corpus) WriteLabel(category, rel, text string, recordedTime any) string {
	c.t.Helper()
	doc := map[string]any{
		"dataSet": map[string]any{"category": category},
		"script":  map[string]any{"scriptITN": text, "scriptTN": text},
		"audio":   map[string]any{"recordedTime": recordedTime, "format": "pcm"},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		c.t.Fatalf("marshal label: %v", err)
	}
	path := filepath.Join(c.Paths(category).LabelDir, filepath.FromSlash(rel)+".json")
	WriteFile(c.t, path, data)
	return path
}

// WritePCM writes raw audio for rel and returns its bytes.
func (c *Corpus) WritePCM(category, rel string, data []byte) string {
	c.t.Helper()
	path := filepath.Join(c.Paths(category).AudioDir, filepath.FromSlash(rel)+".pcm")
	WriteFile(c.t, path, data)
	return path
}

// AddUtterance writes a matching label and PCM pair and returns the label path.
func (c *Corpus) AddUtterance(category, rel, text string, duration float64, pcm []byte) string {
	c.t.Helper()
	c.WritePCM(category, rel, pcm)
	return c.WriteLabel(category, rel, text, duration)
}

// Archive zips the extracted audio and label directories of category into
// the archive paths the catalog expects and removes the directories.
func (c *Corpus) Archive(category string) {
	c.t.Helper()
	paths := c.Paths(category)
	zipDir(c.t, paths.AudioDir, paths.AudioArchive)
	zipDir(c.t, paths.LabelDir, paths.LabelArchive)
}

func zipDir(t testing.TB, dir, target string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", target, err)
	}
	f, err := os.Create(target)
	if err != nil {
		t.Fatalf("create %s: %v", target, err)
	}
	zw := zip.NewWriter(f)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		t.Fatalf("zip %s: %v", dir, err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", target, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove %s: %v", dir, err)
	}
}
