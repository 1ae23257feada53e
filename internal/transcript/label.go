package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"corpusprep/internal/services"
)

// Label holds the fields a manifest record needs from a label file.
type Label struct {
	Path     string
	Text     string
	Duration float64
}

type labelDocument struct {
	Script *struct {
		ScriptTN *string `json:"scriptTN"`
	} `json:"script"`
	Audio *struct {
		RecordedTime *seconds `json:"recordedTime"`
	} `json:"audio"`
}

// seconds accepts both 3.25 and "3.25"; the corpus uses either.
type seconds float64

func (s *seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("recordedTime %q: %w", text, err)
		}
		*s = seconds(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("recordedTime: %w", err)
	}
	*s = seconds(v)
	return nil
}

// ParseLabel reads and validates a label file.
func ParseLabel(path string) (Label, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Label{}, services.Wrap(services.ErrNotFound, "transcript", "read label", path, err)
		}
		return Label{}, fmt.Errorf("read label %s: %w", path, err)
	}
	return DecodeLabel(path, data)
}

// DecodeLabel parses label JSON. path is used for error context only.
func DecodeLabel(path string, data []byte) (Label, error) {
	var doc labelDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Label{}, services.Wrap(services.ErrMalformedInput, "transcript", "parse label", path, err)
	}
	if doc.Script == nil || doc.Script.ScriptTN == nil {
		return Label{}, services.Wrap(services.ErrMalformedInput, "transcript", "parse label", path+": missing script.scriptTN", nil)
	}
	if doc.Audio == nil || doc.Audio.RecordedTime == nil {
		return Label{}, services.Wrap(services.ErrMalformedInput, "transcript", "parse label", path+": missing audio.recordedTime", nil)
	}
	return Label{
		Path:     path,
		Text:     *doc.Script.ScriptTN,
		Duration: float64(*doc.Audio.RecordedTime),
	}, nil
}
