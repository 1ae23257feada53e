// Command corpusprep converts the AIHub Korean number speech corpus into
// WAV files and JSON-lines training manifests.
//
//	corpusprep run --data-root /data/numbers/Training --data-sets FINANCE
//	corpusprep status --data-root /data/numbers/Training
//	corpusprep catalog ALL
//	corpusprep check
//	corpusprep config init
package main
