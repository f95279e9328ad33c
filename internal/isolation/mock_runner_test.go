package isolation

import (
	"context"
	"strings"
	"sync"

	"github.com/plexsphere/fwadm/internal/engine"
)

// mockRunner records every invocation and serves canned stdout per command
// line. Commands without a canned entry succeed with empty output.
type mockRunner struct {
	mu       sync.Mutex
	stdout   map[string]string
	commands []string
}

func newMockRunner() *mockRunner {
	return &mockRunner{stdout: make(map[string]string)}
}

func (m *mockRunner) Run(_ context.Context, cmd engine.Command) (string, string, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line := cmd.Line()
	m.commands = append(m.commands, line)
	return m.stdout[line], "", 0, nil
}

// mutations returns the recorded commands excluding reads (list commands).
func (m *mockRunner) mutations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.commands {
		if strings.Contains(c, "status numbered") || strings.Contains(c, "--list-rich-rules") || strings.HasPrefix(c, "iptables -S") {
			continue
		}
		out = append(out, c)
	}
	return out
}
