package firewall

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLookup returns a LookupFunc that only finds the given binaries.
func fakeLookup(present ...string) LookupFunc {
	return func(name string) (string, error) {
		for _, p := range present {
			if p == name {
				return "/usr/sbin/" + name, nil
			}
		}
		return "", fmt.Errorf("%s: executable file not found in $PATH", name)
	}
}

func TestDetect_PrecedenceUFWFirst(t *testing.T) {
	client, err := Detect(Config{}, fakeLookup("ufw", "firewall-cmd", "iptables"), testLogger())
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if client.Name() != "ufw" {
		t.Errorf("Detect() selected %q, want ufw", client.Name())
	}
}

func TestDetect_FirewalldBeforeIptables(t *testing.T) {
	client, err := Detect(Config{}, fakeLookup("firewall-cmd", "iptables"), testLogger())
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if client.Name() != "firewalld" {
		t.Errorf("Detect() selected %q, want firewalld", client.Name())
	}
}

func TestDetect_IptablesLast(t *testing.T) {
	client, err := Detect(Config{}, fakeLookup("iptables"), testLogger())
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if client.Name() != "iptables" {
		t.Errorf("Detect() selected %q, want iptables", client.Name())
	}
}

func TestDetect_Deterministic(t *testing.T) {
	lookup := fakeLookup("firewall-cmd", "iptables")
	for i := 0; i < 10; i++ {
		client, err := Detect(Config{}, lookup, testLogger())
		if err != nil {
			t.Fatalf("Detect() iteration %d returned error: %v", i, err)
		}
		if client.Name() != "firewalld" {
			t.Fatalf("Detect() iteration %d selected %q, want firewalld", i, client.Name())
		}
	}
}

func TestDetect_NoBackend(t *testing.T) {
	_, err := Detect(Config{}, fakeLookup(), testLogger())
	if err == nil {
		t.Fatal("Detect() returned nil error with no backends present")
	}
	if !errors.Is(err, ErrNoBackend) {
		t.Errorf("Detect() error = %v, want ErrNoBackend", err)
	}
}

func TestDetect_PinnedBackendSkipsPrecedence(t *testing.T) {
	client, err := Detect(Config{Backend: "iptables"}, fakeLookup("ufw", "iptables"), testLogger())
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if client.Name() != "iptables" {
		t.Errorf("Detect() with pinned backend selected %q, want iptables", client.Name())
	}
}

func TestDetect_PinnedBackendMissingBinary(t *testing.T) {
	_, err := Detect(Config{Backend: "ufw"}, fakeLookup("iptables"), testLogger())
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("Detect() error = %v, want ErrNoBackend", err)
	}
}
