package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// PendingFile is a temp file that replaces its target only on Commit.
type PendingFile struct {
	*os.File
	target string
	perm   os.FileMode
	closed bool
}

// CreateAtomic opens a temp file beside path. Callers must Commit or Abort.
func CreateAtomic(path string, perm os.FileMode) (*PendingFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &PendingFile{File: f, target: path, perm: perm}, nil
}

// Commit flushes the temp file and renames it over the target.
func (p *PendingFile) Commit() error {
	if p.closed {
		return errors.New("pending file already finished")
	}
	p.closed = true
	tmp := p.Name()
	if err := p.Chmod(p.perm); err != nil {
		_ = p.File.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := p.File.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, p.target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Abort discards the temp file. Safe to call after Commit.
func (p *PendingFile) Abort() {
	if p.closed {
		return
	}
	p.closed = true
	_ = p.File.Close()
	_ = os.Remove(p.Name())
}

// WriteAtomic writes path through fn so readers never observe a partial file.
func WriteAtomic(path string, perm os.FileMode, fn func(io.Writer) error) error {
	pending, err := CreateAtomic(path, perm)
	if err != nil {
		return err
	}
	if err := fn(pending); err != nil {
		pending.Abort()
		return err
	}
	return pending.Commit()
}

// Exists reports whether path exists. Errors other than not-exist are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
