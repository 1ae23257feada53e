package archive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"corpusprep/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Unzip extracts archives with the external unzip tool.
type Unzip struct {
	binary string
	exec   Executor
}

// UnzipOption configures Unzip.
type UnzipOption func(*Unzip)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) UnzipOption {
	return func(u *Unzip) {
		if exec != nil {
			u.exec = exec
		}
	}
}

// NewUnzip constructs an unzip-backed extractor. An empty binary means "unzip".
func NewUnzip(binary string, opts ...UnzipOption) *Unzip {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "unzip"
	}
	u := &Unzip{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Name identifies the extractor in logs.
func (u *Unzip) Name() string { return "unzip" }

// Extract runs `unzip -o -q <archive> -d <dest>`.
func (u *Unzip) Extract(ctx context.Context, archivePath, destDir string) error {
	args := []string{"-o", "-q", archivePath, "-d", destDir}
	var tail outputTail
	if err := u.exec.Run(ctx, u.binary, args, tail.add); err != nil {
		detail := archivePath
		if last := tail.String(); last != "" {
			detail = fmt.Sprintf("%s (%s)", archivePath, last)
		}
		return services.Wrap(services.ErrExternalTool, "archive", "unzip", detail, err)
	}
	return nil
}

// outputTail keeps the last few lines of tool output for error messages.
type outputTail struct {
	mu    sync.Mutex
	lines []string
}

const tailLines = 3

func (t *outputTail) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > tailLines {
		t.lines = t.lines[len(t.lines)-tailLines:]
	}
}

func (t *outputTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "; ")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
