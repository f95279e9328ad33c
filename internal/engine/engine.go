package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Engine applies batches of backend commands sequentially, honoring dry-run
// and capturing per-command outcomes. A failed command does not abort the
// batch; callers learn exactly which commands succeeded.
type Engine struct {
	runner Runner
	logger *slog.Logger
}

// New creates an Engine using the given runner.
func New(runner Runner, logger *slog.Logger) *Engine {
	return &Engine{
		runner: runner,
		logger: logger.With("component", "engine"),
	}
}

// Apply executes the commands in order. In dry-run mode every command is
// rendered and returned as a simulated success without invoking the runner.
// Execution is strictly sequential: each command completes before the next
// begins, and there is no rollback of earlier commands on failure.
func (e *Engine) Apply(ctx context.Context, cmds []Command, dryRun bool) []Result {
	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		if dryRun {
			e.logger.Debug("dry-run", "command", cmd.Line())
			results = append(results, Result{Command: cmd.Line(), OK: true, Message: "dry-run"})
			continue
		}
		results = append(results, e.run(ctx, cmd))
	}
	return results
}

// Capture executes a single read-only command and returns its stdout.
// Capture is never gated by dry-run: listing backend state has no side
// effects and is required even when mutations are simulated.
func (e *Engine) Capture(ctx context.Context, cmd Command) (string, error) {
	stdout, stderr, exitCode, err := e.runner.Run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("engine: %s: %w", cmd.Line(), err)
	}
	if exitCode != 0 {
		return "", fmt.Errorf("engine: %s: exit %d: %s", cmd.Line(), exitCode, firstLine(stderr))
	}
	return stdout, nil
}

func (e *Engine) run(ctx context.Context, cmd Command) Result {
	stdout, stderr, exitCode, err := e.runner.Run(ctx, cmd)

	res := Result{Command: cmd.Line()}
	switch {
	case err != nil && exitCode == 0:
		res.Message = err.Error()
	case exitCode != 0:
		res.Message = fmt.Sprintf("exit %d: %s", exitCode, firstLine(stderr))
	default:
		res.OK = true
		res.Message = firstLine(stdout)
	}

	if res.OK {
		e.logger.Debug("command succeeded", "command", res.Command)
	} else {
		e.logger.Warn("command failed", "command", res.Command, "message", res.Message)
	}
	return res
}

// firstLine trims output down to its first non-empty line for result messages.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
