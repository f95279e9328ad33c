package rulestore

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/plexsphere/fwadm/internal/catalog"
	"github.com/plexsphere/fwadm/internal/engine"
	"github.com/plexsphere/fwadm/internal/firewall"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockRunner serves canned stdout per command line and records invocations.
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
	m.commands = append(m.commands, cmd.Line())
	return m.stdout[cmd.Line()], "", 0, nil
}

const ufwListing = `Status: active

     To                         Action      From
     --                         ------      ----
[ 1] 445/tcp                    ALLOW IN    192.168.1.101              # isolate
[ 2] 139/tcp                    ALLOW IN    192.168.1.101              # isolate
[ 3] 137/udp                    ALLOW IN    192.168.1.101              # isolate
[ 4] 138/udp                    ALLOW IN    192.168.1.101              # isolate
[ 5] 22/tcp                     DENY IN     192.168.1.101
[ 6] 80/tcp                     ALLOW IN    10.0.0.0/8                 # web
`

func newTestStore() (*Store, *mockRunner) {
	logger := testLogger()
	runner := newMockRunner()
	runner.stdout["ufw status numbered"] = ufwListing
	client := firewall.NewUFWClient(logger)
	eng := engine.New(runner, logger)
	return New(client, eng, logger), runner
}

func TestList_ReDerivesEveryCall(t *testing.T) {
	store, runner := newTestStore()

	for i := 0; i < 3; i++ {
		rules, err := store.List(context.Background())
		if err != nil {
			t.Fatalf("List() call %d returned error: %v", i, err)
		}
		if len(rules) != 6 {
			t.Fatalf("List() call %d returned %d rules, want 6", i, len(rules))
		}
	}
	// No caching: three calls mean three backend invocations.
	if len(runner.commands) != 3 {
		t.Errorf("runner saw %d list commands, want 3", len(runner.commands))
	}
}

func TestListService_MatchesSambaPorts(t *testing.T) {
	store, _ := newTestStore()

	samba, err := catalog.Default().Resolve("samba")
	if err != nil {
		t.Fatalf("Resolve(samba) returned error: %v", err)
	}
	rules, err := store.ListService(context.Background(), samba)
	if err != nil {
		t.Fatalf("ListService() returned error: %v", err)
	}
	if len(rules) != 4 {
		t.Fatalf("ListService(samba) returned %d rules, want 4", len(rules))
	}
	for _, r := range rules {
		if r.Source != "192.168.1.101" {
			t.Errorf("ListService(samba) rule source = %q, want 192.168.1.101", r.Source)
		}
	}
}

func TestListHost_MatchesAllRulesForHost(t *testing.T) {
	store, _ := newTestStore()

	rules, err := store.ListHost(context.Background(), "192.168.1.101")
	if err != nil {
		t.Fatalf("ListHost() returned error: %v", err)
	}
	if len(rules) != 5 {
		t.Fatalf("ListHost() returned %d rules, want 5", len(rules))
	}
}

func TestListFiltered_PreservesOrder(t *testing.T) {
	store, _ := newTestStore()

	rules, err := store.ListFiltered(context.Background(), func(r firewall.ListedRule) bool {
		return r.Action == firewall.ActionAllow
	})
	if err != nil {
		t.Fatalf("ListFiltered() returned error: %v", err)
	}
	for i := 1; i < len(rules); i++ {
		if rules[i-1].Index >= rules[i].Index {
			t.Fatalf("ListFiltered() order broken: index %d before %d", rules[i-1].Index, rules[i].Index)
		}
	}
}

func TestDeleteByIndex(t *testing.T) {
	store, runner := newTestStore()

	results, err := store.DeleteByIndex(context.Background(), 5, false)
	if err != nil {
		t.Fatalf("DeleteByIndex() returned error: %v", err)
	}
	if len(results) != 1 || !results[0].OK {
		t.Fatalf("DeleteByIndex() results = %+v", results)
	}
	last := runner.commands[len(runner.commands)-1]
	if last != "ufw --force delete 5" {
		t.Errorf("DeleteByIndex() executed %q, want %q", last, "ufw --force delete 5")
	}
}

func TestDeleteByIndex_UnknownIndex(t *testing.T) {
	store, _ := newTestStore()

	if _, err := store.DeleteByIndex(context.Background(), 42, false); err == nil {
		t.Fatal("DeleteByIndex(42) returned nil error for unknown index")
	}
}

func TestDeleteByIndex_DryRunDoesNotMutate(t *testing.T) {
	store, runner := newTestStore()

	results, err := store.DeleteByIndex(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("DeleteByIndex() returned error: %v", err)
	}
	if !engine.AllOK(results) {
		t.Error("dry-run delete results not all OK")
	}
	// Only the read (list) command may have reached the runner.
	for _, cmd := range runner.commands {
		if cmd != "ufw status numbered" {
			t.Errorf("dry-run executed mutating command %q", cmd)
		}
	}
}
