// Package pathmap derives audio and WAV paths from label file paths.
//
// The source corpus keeps labels and audio in parallel trees whose root
// segments differ by a fixed prefix convention (TL_/VL_ for labels, TS_/VS_
// for audio). The mapping is a table of literal rewrite rules so new naming
// irregularities are added as data, not code. All functions are pure.
package pathmap
