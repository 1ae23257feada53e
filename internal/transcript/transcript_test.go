package transcript_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"corpusprep/internal/services"
	"corpusprep/internal/testsupport"
	"corpusprep/internal/transcript"
	"corpusprep/internal/wavconv"
)

func TestDecodeLabelAcceptsStringAndNumberDurations(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{name: "string", json: `{"script":{"scriptTN":"오백원"},"audio":{"recordedTime":"3.25"}}`, want: 3.25},
		{name: "number", json: `{"script":{"scriptTN":"오백원"},"audio":{"recordedTime":3.25}}`, want: 3.25},
		{name: "padded string", json: `{"script":{"scriptTN":"오백원"},"audio":{"recordedTime":" 7 "}}`, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := transcript.DecodeLabel("x.json", []byte(tt.json))
			if err != nil {
				t.Fatalf("DecodeLabel: %v", err)
			}
			if label.Text != "오백원" || label.Duration != tt.want {
				t.Fatalf("label = %+v", label)
			}
		})
	}
}

func TestDecodeLabelRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "not json", json: `{"script":`},
		{name: "missing script", json: `{"audio":{"recordedTime":"1"}}`},
		{name: "missing scriptTN", json: `{"script":{"scriptITN":"x"},"audio":{"recordedTime":"1"}}`},
		{name: "missing recordedTime", json: `{"script":{"scriptTN":"x"},"audio":{}}`},
		{name: "non-numeric duration", json: `{"script":{"scriptTN":"x"},"audio":{"recordedTime":"long"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transcript.DecodeLabel("x.json", []byte(tt.json))
			if !errors.Is(err, services.ErrMalformedInput) {
				t.Fatalf("expected malformed input, got %v", err)
			}
		})
	}
}

func TestParseLabelMissingFile(t *testing.T) {
	_, err := transcript.ParseLabel(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProcessConvertsThenReuses(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Training")
	corpus := testsupport.NewCorpus(t, root, true)
	pcm := testsupport.PCM16(800, 1)
	labelPath := corpus.AddUtterance("20.통화-금액", "S001/S001_0001", "오백원", 3.25, pcm)

	proc := &transcript.Processor{Params: wavconv.DefaultParams}
	rec, outcome, err := proc.Process(context.Background(), labelPath)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome != transcript.OutcomeConverted {
		t.Fatalf("outcome = %s, want converted", outcome)
	}
	wantWAV := filepath.Join(root+"_Processed", "원천데이터", "TS_20.통화-금액", "S001", "S001_0001.wav")
	if rec.AudioFilepath != wantWAV {
		t.Fatalf("audio path = %s, want %s", rec.AudioFilepath, wantWAV)
	}
	if !filepath.IsAbs(rec.AudioFilepath) {
		t.Fatalf("audio path not absolute: %s", rec.AudioFilepath)
	}
	if rec.Duration != 3.25 || rec.Text != "오백원" {
		t.Fatalf("record = %+v", rec)
	}
	data, err := os.ReadFile(wantWAV)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if !bytes.Equal(data[44:], pcm) {
		t.Fatal("wav frames differ from pcm")
	}

	info, err := os.Stat(wantWAV)
	if err != nil {
		t.Fatal(err)
	}
	again, outcome, err := proc.Process(context.Background(), labelPath)
	if err != nil {
		t.Fatalf("second Process: %v", err)
	}
	if outcome != transcript.OutcomeReused || again != rec {
		t.Fatalf("second run = %+v (%s)", again, outcome)
	}
	info2, err := os.Stat(wantWAV)
	if err != nil {
		t.Fatal(err)
	}
	if !info2.ModTime().Equal(info.ModTime()) {
		t.Fatal("existing wav was rewritten")
	}
}

func TestProcessMissingAudioFails(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Training")
	corpus := testsupport.NewCorpus(t, root, true)
	labelPath := corpus.WriteLabel("8.단위", "a", "일 미터", "1.5")

	proc := &transcript.Processor{}
	_, _, err := proc.Process(context.Background(), labelPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProcessHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	proc := &transcript.Processor{}
	if _, _, err := proc.Process(ctx, "/unused.json"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
