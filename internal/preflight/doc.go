// Package preflight provides readiness checks run before a conversion.
//
// The CLI "corpusprep check" command prints every result; "corpusprep run"
// calls RunAll and refuses to start when a required check fails, so a long
// extraction does not die halfway on a full disk or a missing unzip.
package preflight
