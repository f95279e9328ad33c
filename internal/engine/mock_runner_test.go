package engine

import (
	"context"
	"sync"
)

// mockRunner is a test double for Runner. It records every command it is
// asked to run and supports configurable per-command outcomes.
type mockRunner struct {
	mu sync.Mutex

	commands []Command

	// outcomes maps a rendered command line to its result. Commands without
	// an entry succeed with empty output.
	outcomes map[string]mockOutcome
}

type mockOutcome struct {
	stdout   string
	stderr   string
	exitCode int
	err      error
}

func newMockRunner() *mockRunner {
	return &mockRunner{outcomes: make(map[string]mockOutcome)}
}

func (m *mockRunner) Run(_ context.Context, cmd Command) (string, string, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	out := m.outcomes[cmd.Line()]
	return out.stdout, out.stderr, out.exitCode, out.err
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commands)
}

func (m *mockRunner) lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.commands))
	for i, c := range m.commands {
		lines[i] = c.Line()
	}
	return lines
}
