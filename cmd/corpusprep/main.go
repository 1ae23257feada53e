package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}

// execute runs the CLI with args and maps the outcome to an exit code.
// Interrupted runs report a single line; partial manifests stay on disk.
func execute(args []string, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "corpusprep: interrupted")
	default:
		fmt.Fprintf(stderr, "corpusprep: %v\n", err)
	}
	return 1
}
