// Package pipeline drives a corpus conversion run.
//
// For each selected category, in order, Run makes sure the audio and label
// archives are unpacked, walks the label tree, converts every label/audio
// pair on a bounded worker pool, and writes the per-category manifest
// followed by the cumulative manifest_all.json. Categories never overlap;
// items inside a category finish in any order.
//
// A run holds an exclusive file lock inside the output root so two runs
// cannot interleave writes to the same manifests. When a ledger is supplied,
// dataset state and records are persisted there; with Resume set, records of
// categories processed by earlier runs are carried into manifest_all.json.
package pipeline
