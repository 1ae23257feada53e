// Package transcript turns one label file into a manifest record.
//
// A label names its transcript (script.scriptTN) and recorded duration
// (audio.recordedTime). Processing resolves the matching PCM file, converts it
// to WAV under the processed tree when the WAV is not already there, and
// returns the record that points at it.
package transcript
