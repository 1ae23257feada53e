package wavconv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"corpusprep/internal/fileutil"
	"corpusprep/internal/services"
)

const pcmFormat = 1

// ErrInvalidFormat reports container parameters that cannot describe PCM frames.
var ErrInvalidFormat = errors.New("invalid audio format")

// Params describes the PCM layout of the source audio.
type Params struct {
	Channels   int
	BitDepth   int
	SampleRate int
}

// DefaultParams matches the source corpus: mono, 16-bit, 16 kHz.
var DefaultParams = Params{Channels: 1, BitDepth: 16, SampleRate: 16000}

// Validate rejects parameters the container cannot represent.
func (p Params) Validate() error {
	if p.BitDepth <= 0 || p.BitDepth%8 != 0 {
		return invalid(fmt.Sprintf("bit_depth %d must be a multiple of 8", p.BitDepth))
	}
	if p.BitDepth > 32 {
		return invalid(fmt.Sprintf("bit_depth %d exceeds 32", p.BitDepth))
	}
	if p.Channels <= 0 {
		return invalid(fmt.Sprintf("channels %d must be positive", p.Channels))
	}
	if p.SampleRate <= 0 {
		return invalid(fmt.Sprintf("sample_rate %d must be positive", p.SampleRate))
	}
	return nil
}

// FrameSize is the byte length of one frame across all channels.
func (p Params) FrameSize() int {
	return p.Channels * p.BitDepth / 8
}

// Result summarizes one conversion.
type Result struct {
	Frames       int
	DroppedBytes int
}

// Duration returns the audio length in seconds.
func (r Result) Duration(p Params) float64 {
	if p.SampleRate <= 0 {
		return 0
	}
	return float64(r.Frames) / float64(p.SampleRate)
}

// ConvertFile reads the PCM file at src and writes a WAV file at dst,
// creating parent directories as needed. dst appears atomically; a partially
// written file is never left at dst. Trailing bytes that do not form a whole
// frame are dropped and reported in Result.
func ConvertFile(src, dst string, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	raw, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, services.Wrap(services.ErrNotFound, "wavconv", "read pcm", src, err)
		}
		return Result{}, fmt.Errorf("read pcm %s: %w", src, err)
	}
	pending, err := fileutil.CreateAtomic(dst, 0o644)
	if err != nil {
		return Result{}, err
	}
	result, err := Encode(pending, raw, p)
	if err != nil {
		pending.Abort()
		return Result{}, err
	}
	if err := pending.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit wav: %w", err)
	}
	return result, nil
}

// Encode writes raw PCM frames to w as a WAV stream. The writer is not closed.
func Encode(w io.WriteSeeker, raw []byte, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	frameSize := p.FrameSize()
	usable := len(raw) - len(raw)%frameSize
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: p.Channels, SampleRate: p.SampleRate},
		Data:           samples(raw[:usable], p.BitDepth/8),
		SourceBitDepth: p.BitDepth,
	}

	enc := wav.NewEncoder(w, p.SampleRate, p.BitDepth, p.Channels, pcmFormat)
	if err := enc.Write(buf); err != nil {
		return Result{}, fmt.Errorf("write wav frames: %w", err)
	}
	if err := enc.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize wav header: %w", err)
	}
	return Result{Frames: usable / frameSize, DroppedBytes: len(raw) - usable}, nil
}

// samples decodes little-endian PCM into the integer form go-audio expects.
// 8-bit PCM is unsigned and passes through as 0..255.
func samples(raw []byte, width int) []int {
	out := make([]int, len(raw)/width)
	for i := range out {
		b := raw[i*width : (i+1)*width]
		switch width {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case 3:
			v := int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16)
			out[i] = int(v << 8 >> 8)
		case 4:
			out[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}
	return out
}

func invalid(detail string) error {
	return fmt.Errorf("%w: %w", ErrInvalidFormat, services.Wrap(services.ErrValidation, "wavconv", "params", detail, nil))
}
