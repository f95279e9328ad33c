package catalog

import (
	"errors"
	"testing"
)

func TestResolve_KnownService(t *testing.T) {
	cat := Default()

	svc, err := cat.Resolve("samba")
	if err != nil {
		t.Fatalf("Resolve(samba) returned error: %v", err)
	}
	want := []PortSpec{{445, "tcp"}, {139, "tcp"}, {137, "udp"}, {138, "udp"}}
	if len(svc.Ports) != len(want) {
		t.Fatalf("Resolve(samba) returned %d ports, want %d", len(svc.Ports), len(want))
	}
	for i, p := range svc.Ports {
		if p != want[i] {
			t.Errorf("Resolve(samba).Ports[%d] = %v, want %v", i, p, want[i])
		}
	}
}

func TestResolve_UnknownService(t *testing.T) {
	cat := Default()

	_, err := cat.Resolve("gopher")
	if err == nil {
		t.Fatal("Resolve(gopher) returned nil error")
	}
	if !errors.Is(err, ErrUnknownService) {
		t.Errorf("Resolve(gopher) error = %v, want ErrUnknownService", err)
	}
}

func TestCommon_FixedSubset(t *testing.T) {
	cat := Default()

	common := cat.Common()
	want := []string{"ssh", "http", "https", "smtp", "pop3", "imap"}
	if len(common) != len(want) {
		t.Fatalf("Common() returned %d services, want %d", len(common), len(want))
	}
	for i, s := range common {
		if s.Name != want[i] {
			t.Errorf("Common()[%d].Name = %q, want %q", i, s.Name, want[i])
		}
	}
}

func TestCommon_ExcludesSamba(t *testing.T) {
	for _, s := range Default().Common() {
		if s.Name == "samba" {
			t.Error("Common() includes samba; the implicit deny list must not cover the transfer service")
		}
	}
}

func TestMerge_AddsNewService(t *testing.T) {
	cat := Default()
	cat.Merge([]Service{{Name: "backup", Ports: []PortSpec{{8200, "tcp"}}}})

	svc, err := cat.Resolve("backup")
	if err != nil {
		t.Fatalf("Resolve(backup) after Merge returned error: %v", err)
	}
	if len(svc.Ports) != 1 || svc.Ports[0].Port != 8200 {
		t.Errorf("Resolve(backup).Ports = %v, want [{8200 tcp}]", svc.Ports)
	}
}

func TestMerge_OverridesBuiltin(t *testing.T) {
	cat := Default()
	cat.Merge([]Service{{Name: "ssh", Ports: []PortSpec{{2222, "tcp"}}}})

	svc, err := cat.Resolve("ssh")
	if err != nil {
		t.Fatalf("Resolve(ssh) returned error: %v", err)
	}
	if len(svc.Ports) != 1 || svc.Ports[0].Port != 2222 {
		t.Errorf("Resolve(ssh).Ports = %v, want [{2222 tcp}]", svc.Ports)
	}

	// The common subset must see the override too.
	for _, s := range cat.Common() {
		if s.Name == "ssh" && (len(s.Ports) != 1 || s.Ports[0].Port != 2222) {
			t.Errorf("Common() ssh ports = %v, want [{2222 tcp}]", s.Ports)
		}
	}
}

func TestNames_Sorted(t *testing.T) {
	names := Default().Names()
	if len(names) == 0 {
		t.Fatal("Names() returned no services")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
