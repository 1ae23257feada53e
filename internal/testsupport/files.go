package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// PCM16 returns frames of 16-bit little-endian mono samples in a repeating
// ramp, distinct per seed.
func PCM16(frames int, seed int) []byte {
	out := make([]byte, 0, frames*2)
	for i := 0; i < frames; i++ {
		out = binary.LittleEndian.AppendUint16(out, uint16(int16((i+seed)*113%65536-32768)))
	}
	return out
}
