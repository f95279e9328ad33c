package firewall

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/plexsphere/fwadm/internal/engine"
)

// FirewalldClient implements Client for the firewalld zone manager using
// permanent rich rules. Rich rules carry no comment field, so comments are
// accepted but not persisted on this backend; identity remains the
// (action, source, port, protocol) tuple, which all backends support.
type FirewalldClient struct {
	logger *slog.Logger
}

// NewFirewalldClient returns a Client speaking the firewall-cmd grammar.
func NewFirewalldClient(logger *slog.Logger) *FirewalldClient {
	return &FirewalldClient{logger: logger}
}

// Name returns the backend identifier.
func (c *FirewalldClient) Name() string { return backendFirewalld }

// richRule renders the rich-rule text for a rule. Deny maps to reject so the
// source receives an ICMP refusal instead of a silent drop; the appliance
// favors fast failure for misdirected clients.
func richRule(r Rule) string {
	verdict := "accept"
	if r.Action == ActionDeny {
		verdict = "reject"
	}
	return fmt.Sprintf(`rule family="ipv4" source address="%s" port port="%d" protocol="%s" %s`,
		r.Source, r.Port, r.Protocol, verdict)
}

// RuleCommands translates a rule into a permanent rich-rule addition. The
// change only takes effect after CommitCommands' reload.
func (c *FirewalldClient) RuleCommands(r Rule) []engine.Command {
	return []engine.Command{{
		Path: "firewall-cmd",
		Args: []string{"--permanent", "--add-rich-rule=" + richRule(r)},
	}}
}

// CommitCommands reloads firewalld so permanent changes become runtime state.
func (c *FirewalldClient) CommitCommands() []engine.Command {
	return []engine.Command{{Path: "firewall-cmd", Args: []string{"--reload"}}}
}

// ListCommand lists the permanent rich rules of the default zone.
func (c *FirewalldClient) ListCommand() engine.Command {
	return engine.Command{Path: "firewall-cmd", Args: []string{"--permanent", "--list-rich-rules"}}
}

// firewalldRulePattern matches the rich rules this tool writes. Rich rules
// with other shapes (services, masquerade, icmp blocks) are skipped.
var firewalldRulePattern = regexp.MustCompile(
	`^rule family="ipv4" source address="([^"]+)" port port="(\d+)" protocol="(tcp|udp)" (accept|reject|drop)$`)

// ParseListing parses `firewall-cmd --list-rich-rules` output, one rich rule
// per line. Indexes are assigned in listing order; deletion is by rule text,
// not index, so the index only serves display and grouping.
func (c *FirewalldClient) ParseListing(stdout string) ([]ListedRule, error) {
	var rules []ListedRule
	index := 0
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		index++
		m := firewalldRulePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		port, err := strconv.ParseUint(m[2], 10, 16)
		if err != nil || port == 0 {
			continue
		}

		action := ActionAllow
		if m[4] != "accept" {
			action = ActionDeny
		}

		rules = append(rules, ListedRule{
			Index:    index,
			Action:   action,
			Source:   m[1],
			Port:     uint16(port),
			Protocol: m[3],
			Raw:      line,
		})
	}
	return rules, nil
}

// DeleteCommands removes a rich rule by its exact text. Content addressing
// means delete order does not matter on this backend.
func (c *FirewalldClient) DeleteCommands(r ListedRule) []engine.Command {
	return []engine.Command{{
		Path: "firewall-cmd",
		Args: []string{"--permanent", "--remove-rich-rule=" + r.Raw},
	}}
}

// EnableCommands starts firewalld and enables it at boot.
func (c *FirewalldClient) EnableCommands() []engine.Command {
	return []engine.Command{{Path: "systemctl", Args: []string{"enable", "--now", "firewalld"}}}
}

// DisableCommands stops firewalld and disables it at boot.
func (c *FirewalldClient) DisableCommands() []engine.Command {
	return []engine.Command{{Path: "systemctl", Args: []string{"disable", "--now", "firewalld"}}}
}

// StatusCommand reports the daemon state.
func (c *FirewalldClient) StatusCommand() engine.Command {
	return engine.Command{Path: "firewall-cmd", Args: []string{"--state"}}
}

var _ Client = (*FirewalldClient)(nil)
