package wavconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"corpusprep/internal/services"
)

const headerSize = 44

func TestConvertFileRoundTripsSixteenBitMono(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.pcm")
	dst := filepath.Join(dir, "out", "nested", "clip.wav")

	raw := make([]byte, 0, 3200)
	for i := 0; i < 1600; i++ {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(int16(i*37-30000)))
	}
	if err := os.WriteFile(src, raw, 0o644); err != nil {
		t.Fatalf("write pcm: %v", err)
	}

	res, err := ConvertFile(src, dst, DefaultParams)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if res.Frames != 1600 || res.DroppedBytes != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := res.Duration(DefaultParams); got != 0.1 {
		t.Fatalf("duration = %v, want 0.1", got)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if len(data) != headerSize+len(raw) {
		t.Fatalf("wav size = %d, want %d", len(data), headerSize+len(raw))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE markers: %q", data[:12])
	}
	if !bytes.Equal(data[headerSize:], raw) {
		t.Fatal("frame bytes differ from source pcm")
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("open wav: %v", err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("decoder rejected output")
	}
	if dec.NumChans != 1 || dec.BitDepth != 16 || dec.SampleRate != 16000 {
		t.Fatalf("header = %d ch / %d bit / %d Hz", dec.NumChans, dec.BitDepth, dec.SampleRate)
	}
}

func TestConvertFilePreservesBytesAcrossDepths(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "8-bit", params: Params{Channels: 1, BitDepth: 8, SampleRate: 8000}},
		{name: "24-bit stereo", params: Params{Channels: 2, BitDepth: 24, SampleRate: 48000}},
		{name: "32-bit", params: Params{Channels: 1, BitDepth: 32, SampleRate: 16000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "in.pcm")
			dst := filepath.Join(dir, "in.wav")
			raw := make([]byte, tt.params.FrameSize()*64)
			for i := range raw {
				raw[i] = byte(i*53 + 7)
			}
			if err := os.WriteFile(src, raw, 0o644); err != nil {
				t.Fatalf("write pcm: %v", err)
			}
			res, err := ConvertFile(src, dst, tt.params)
			if err != nil {
				t.Fatalf("ConvertFile: %v", err)
			}
			if res.Frames != 64 {
				t.Fatalf("frames = %d, want 64", res.Frames)
			}
			data, err := os.ReadFile(dst)
			if err != nil {
				t.Fatalf("read wav: %v", err)
			}
			if !bytes.Equal(data[headerSize:], raw) {
				t.Fatal("frame bytes differ from source pcm")
			}
		})
	}
}

func TestConvertFileDropsPartialFrame(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "odd.pcm")
	if err := os.WriteFile(src, []byte{1, 2, 3, 4, 5}, 0o644); err != nil {
		t.Fatalf("write pcm: %v", err)
	}
	res, err := ConvertFile(src, filepath.Join(dir, "odd.wav"), DefaultParams)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if res.Frames != 2 || res.DroppedBytes != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestConvertFileRejectsInvalidBitDepth(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.pcm")
	if err := os.WriteFile(src, []byte{0, 0}, 0o644); err != nil {
		t.Fatalf("write pcm: %v", err)
	}
	dst := filepath.Join(dir, "a.wav")
	_, err := ConvertFile(src, dst, Params{Channels: 1, BitDepth: 15, SampleRate: 16000})
	if !errors.Is(err, ErrInvalidFormat) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected invalid format validation error, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, stat err=%v", statErr)
	}
}

func TestConvertFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := ConvertFile(filepath.Join(dir, "missing.pcm"), filepath.Join(dir, "x.wav"), DefaultParams)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{name: "default", params: DefaultParams},
		{name: "zero channels", params: Params{Channels: 0, BitDepth: 16, SampleRate: 16000}, wantErr: true},
		{name: "zero rate", params: Params{Channels: 1, BitDepth: 16, SampleRate: 0}, wantErr: true},
		{name: "40-bit", params: Params{Channels: 1, BitDepth: 40, SampleRate: 16000}, wantErr: true},
		{name: "negative depth", params: Params{Channels: 1, BitDepth: -8, SampleRate: 16000}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
