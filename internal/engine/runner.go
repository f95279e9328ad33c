package engine

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// waitDelayAfterKill is the grace period for a backend process to exit after
// context cancellation before it is forcibly killed.
const waitDelayAfterKill = 500 * time.Millisecond

// truncationSuffix is appended to output that exceeded MaxOutputBytes.
const truncationSuffix = "\n...[truncated]"

// Runner abstracts external process execution for testability.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout, stderr string, exitCode int, err error)
}

// ExecRunner runs commands as real external processes.
type ExecRunner struct {
	maxOutputBytes int64
}

// NewExecRunner returns an ExecRunner honoring the given configuration.
func NewExecRunner(cfg Config) *ExecRunner {
	cfg.ApplyDefaults()
	return &ExecRunner{maxOutputBytes: cfg.MaxOutputBytes}
}

// Run executes the command and waits for it to finish. There is deliberately
// no timeout here: the firewall backends are expected to return promptly and
// a partial mutation left behind by a killed backend process would be worse
// than a blocked invocation. Cancelling the context kills the process.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (string, string, int, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.WaitDelay = waitDelayAfterKill

	stdoutW := newLimitedWriter(r.maxOutputBytes)
	stderrW := newLimitedWriter(r.maxOutputBytes)
	c.Stdout = stdoutW
	c.Stderr = stderrW

	runErr := c.Run()

	stdout := collectOutput(stdoutW)
	stderr := collectOutput(stderrW)

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return stdout, stderr, exitErr.ExitCode(), runErr
		}
		return stdout, stderr, 1, runErr
	}

	return stdout, stderr, 0, nil
}

// limitedWriter is an io.Writer that discards bytes beyond a maximum limit,
// preventing unbounded memory allocation when a backend misbehaves.
type limitedWriter struct {
	buf []byte
	max int64
}

func newLimitedWriter(max int64) *limitedWriter {
	return &limitedWriter{max: max}
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	remaining := w.max - int64(len(w.buf))
	if remaining > 0 {
		n := int64(len(p))
		if n > remaining {
			n = remaining
		}
		w.buf = append(w.buf, p[:n]...)
	}
	// Always report all bytes as written so the command doesn't stall.
	return len(p), nil
}

func (w *limitedWriter) String() string {
	return string(w.buf)
}

// truncated reports whether the writer hit its capacity limit.
func (w *limitedWriter) truncated() bool {
	return int64(len(w.buf)) >= w.max
}

// collectOutput returns the writer's content, appending a truncation
// indicator if the output exceeded the writer's capacity.
func collectOutput(w *limitedWriter) string {
	if w.truncated() {
		return w.String() + truncationSuffix
	}
	return w.String()
}
