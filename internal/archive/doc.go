// Package archive unpacks the corpus zip archives.
//
// The default Unzip extractor shells out to the unzip binary. Builtin uses
// archive/zip directly and decodes legacy CP949 entry names, which is what the
// corpus archives carry when they were packed on Korean Windows hosts.
// EnsureExtracted wraps either one with the skip-if-present policy the
// pipeline relies on.
package archive
