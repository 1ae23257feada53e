// Package manifest reads and writes JSON-lines training manifests.
package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"corpusprep/internal/fileutil"
	"corpusprep/internal/services"
)

// Record describes one utterance: an absolute WAV path, its duration in
// seconds, and the transcript.
type Record struct {
	AudioFilepath string  `json:"audio_filepath"`
	Duration      float64 `json:"duration"`
	Text          string  `json:"text"`
}

// Encode writes one JSON object per line. Non-ASCII text is written verbatim.
func Encode(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteFile replaces path with the given records. An empty slice yields an
// empty file.
func WriteFile(path string, records []Record) error {
	if err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, records)
	}); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// Decode reads JSON lines from r. Blank lines are ignored.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, services.Wrap(services.ErrMalformedInput, "manifest", "decode", fmt.Sprintf("line %d", line), err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}
	return records, nil
}

// ReadFile loads a manifest written by WriteFile.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// SortByPath orders records by audio path for reproducible output.
func SortByPath(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AudioFilepath < records[j].AudioFilepath
	})
}

// TotalDuration sums record durations in seconds.
func TotalDuration(records []Record) float64 {
	var total float64
	for _, r := range records {
		total += r.Duration
	}
	return total
}
