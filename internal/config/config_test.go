package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := ParseConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("ParseConfig() returned error for missing file: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Firewall.Backend != "auto" {
		t.Errorf("Firewall.Backend = %q, want auto", cfg.Firewall.Backend)
	}
	if cfg.Firewall.Chain != "INPUT" {
		t.Errorf("Firewall.Chain = %q, want INPUT", cfg.Firewall.Chain)
	}
	if cfg.Engine.MaxOutputBytes != 1<<20 {
		t.Errorf("Engine.MaxOutputBytes = %d, want %d", cfg.Engine.MaxOutputBytes, 1<<20)
	}
}

func TestParseConfig_FullFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
default_comment: transfer appliance
firewall:
  backend: iptables
  chain: FWADM
engine:
  max_output_bytes: 4096
services:
  - name: backup
    ports: ["8200/tcp", "8201/udp"]
`)

	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig() returned error: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.DefaultComment != "transfer appliance" {
		t.Errorf("parsed top-level fields = %q/%q", cfg.LogLevel, cfg.DefaultComment)
	}
	if cfg.Firewall.Backend != "iptables" || cfg.Firewall.Chain != "FWADM" {
		t.Errorf("parsed firewall config = %+v", cfg.Firewall)
	}
	if cfg.Engine.MaxOutputBytes != 4096 {
		t.Errorf("parsed engine config = %+v", cfg.Engine)
	}
}

func TestParseConfig_InvalidBackend(t *testing.T) {
	path := writeConfig(t, "firewall:\n  backend: pf\n")
	if _, err := ParseConfig(path); err == nil {
		t.Fatal("ParseConfig() accepted unknown backend")
	}
}

func TestParseConfig_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, "log_level: loud\n")
	if _, err := ParseConfig(path); err == nil {
		t.Fatal("ParseConfig() accepted invalid log level")
	}
}

func TestParseConfig_BadServicePort(t *testing.T) {
	for _, ports := range []string{`["8200"]`, `["0/tcp"]`, `["8200/icmp"]`, `["x/tcp"]`} {
		path := writeConfig(t, "services:\n  - name: backup\n    ports: "+ports+"\n")
		if _, err := ParseConfig(path); err == nil {
			t.Errorf("ParseConfig() accepted service ports %s", ports)
		}
	}
}

func TestCatalog_MergesConfigServices(t *testing.T) {
	path := writeConfig(t, `
services:
  - name: backup
    ports: ["8200/tcp"]
  - name: ssh
    ports: ["2222/tcp"]
`)
	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig() returned error: %v", err)
	}

	cat := cfg.Catalog()
	if _, err := cat.Resolve("backup"); err != nil {
		t.Errorf("Resolve(backup) returned error: %v", err)
	}
	ssh, err := cat.Resolve("ssh")
	if err != nil {
		t.Fatalf("Resolve(ssh) returned error: %v", err)
	}
	if len(ssh.Ports) != 1 || ssh.Ports[0].Port != 2222 {
		t.Errorf("overridden ssh ports = %v, want [{2222 tcp}]", ssh.Ports)
	}
}
