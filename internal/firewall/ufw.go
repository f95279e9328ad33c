package firewall

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/plexsphere/fwadm/internal/engine"
)

// UFWClient implements Client for the ufw allow-list manager.
type UFWClient struct {
	logger *slog.Logger
}

// NewUFWClient returns a Client speaking the ufw command grammar.
func NewUFWClient(logger *slog.Logger) *UFWClient {
	return &UFWClient{logger: logger}
}

// Name returns the backend identifier.
func (c *UFWClient) Name() string { return backendUFW }

// RuleCommands translates a rule into a single ufw invocation.
func (c *UFWClient) RuleCommands(r Rule) []engine.Command {
	args := []string{
		string(r.Action),
		"from", r.Source,
		"to", "any",
		"port", strconv.Itoa(int(r.Port)),
		"proto", string(r.Protocol),
	}
	if r.Comment != "" {
		args = append(args, "comment", r.Comment)
	}
	return []engine.Command{{Path: "ufw", Args: args}}
}

// CommitCommands is a no-op: ufw rules take effect immediately.
func (c *UFWClient) CommitCommands() []engine.Command { return nil }

// ListCommand returns the numbered status listing.
func (c *UFWClient) ListCommand() engine.Command {
	return engine.Command{Path: "ufw", Args: []string{"status", "numbered"}}
}

// ufwRulePattern matches numbered status lines such as
//
//	[ 1] 445/tcp                    ALLOW IN    192.168.1.0/24             # file share
//	[12] 22/tcp                     DENY IN     10.0.0.5
//
// The columns are whitespace-aligned; the comment after "#" is optional.
var ufwRulePattern = regexp.MustCompile(`^\[\s*(\d+)\]\s+(\S+)\s+(ALLOW|DENY|REJECT|LIMIT)(?:\s+(?:IN|OUT))?\s+(\S+)(?:\s+#\s*(.*))?\s*$`)

// ParseListing parses `ufw status numbered` output. Entries without a
// single port/protocol destination (application profiles, port ranges,
// "Anywhere" targets) and IPv6 duplicates are skipped: they cannot have been
// produced by this tool and carry no identity it can reason about.
func (c *UFWClient) ParseListing(stdout string) ([]ListedRule, error) {
	var rules []ListedRule
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.Contains(line, "(v6)") {
			continue
		}
		m := ufwRulePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		port, proto, ok := splitPortProto(m[2])
		if !ok {
			continue
		}

		action := ActionDeny
		if m[3] == "ALLOW" || m[3] == "LIMIT" {
			action = ActionAllow
		}

		source := m[4]
		if source == "Anywhere" {
			source = "0.0.0.0/0"
		}

		rules = append(rules, ListedRule{
			Index:    index,
			Action:   action,
			Source:   source,
			Port:     port,
			Protocol: proto,
			Comment:  strings.TrimSpace(m[5]),
			Raw:      strings.TrimSpace(line),
		})
	}
	return rules, nil
}

// DeleteCommands removes a rule by its listing number. Deleting shifts the
// numbers of later rules, hence the descending-order contract on Client.
func (c *UFWClient) DeleteCommands(r ListedRule) []engine.Command {
	return []engine.Command{{Path: "ufw", Args: []string{"--force", "delete", strconv.Itoa(r.Index)}}}
}

// EnableCommands turns the firewall on without the interactive prompt.
func (c *UFWClient) EnableCommands() []engine.Command {
	return []engine.Command{{Path: "ufw", Args: []string{"--force", "enable"}}}
}

// DisableCommands turns the firewall off.
func (c *UFWClient) DisableCommands() []engine.Command {
	return []engine.Command{{Path: "ufw", Args: []string{"disable"}}}
}

// StatusCommand returns the verbose status invocation.
func (c *UFWClient) StatusCommand() engine.Command {
	return engine.Command{Path: "ufw", Args: []string{"status", "verbose"}}
}

// splitPortProto parses a "445/tcp" destination column into its parts.
func splitPortProto(s string) (uint16, string, bool) {
	portStr, proto, found := strings.Cut(s, "/")
	if !found || (proto != "tcp" && proto != "udp") {
		return 0, "", false
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return 0, "", false
	}
	return uint16(port), proto, true
}

var _ Client = (*UFWClient)(nil)
