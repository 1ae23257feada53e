// Package wavconv wraps headerless PCM audio in a WAV container.
//
// Raw PCM carries no description of itself, so the caller supplies channel
// count, bit depth, and sample rate. Samples are interpreted as little-endian
// signed integers (unsigned for 8-bit) and handed to go-audio/wav, which
// writes a standard 44-byte PCM header followed by the unchanged frames.
package wavconv
