package firewall

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/plexsphere/fwadm/internal/engine"
)

// IptablesClient implements Client for the raw chain-based packet filter.
// Rules are appended to a single configurable chain (INPUT by default) and
// addressed by their position in that chain.
type IptablesClient struct {
	chain  string
	logger *slog.Logger
}

// NewIptablesClient returns a Client speaking the iptables command grammar.
func NewIptablesClient(chain string, logger *slog.Logger) *IptablesClient {
	if chain == "" {
		chain = DefaultChain
	}
	return &IptablesClient{chain: chain, logger: logger}
}

// Name returns the backend identifier.
func (c *IptablesClient) Name() string { return backendIptables }

// RuleCommands translates a rule into a single append invocation.
func (c *IptablesClient) RuleCommands(r Rule) []engine.Command {
	target := "ACCEPT"
	if r.Action == ActionDeny {
		target = "DROP"
	}
	args := []string{
		"-A", c.chain,
		"-s", r.Source,
		"-p", string(r.Protocol),
		"--dport", strconv.Itoa(int(r.Port)),
	}
	if r.Comment != "" {
		args = append(args, "-m", "comment", "--comment", r.Comment)
	}
	args = append(args, "-j", target)
	return []engine.Command{{Path: "iptables", Args: args}}
}

// CommitCommands is a no-op: iptables mutations take effect immediately.
func (c *IptablesClient) CommitCommands() []engine.Command { return nil }

// ListCommand returns the rule-spec listing for the managed chain.
func (c *IptablesClient) ListCommand() engine.Command {
	return engine.Command{Path: "iptables", Args: []string{"-S", c.chain}}
}

// ParseListing parses `iptables -S <chain>` output. Each `-A <chain>` line is
// tokenized (respecting quoted comments) and scanned for the source,
// protocol, destination port, comment and jump target. Lines without a
// single destination port are skipped. The index counts -A lines in order,
// matching the line numbers `iptables -D <chain> N` expects.
func (c *IptablesClient) ParseListing(stdout string) ([]ListedRule, error) {
	var rules []ListedRule
	index := 0
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-A "+c.chain+" ") {
			continue
		}
		index++

		tokens := splitQuoted(line)
		var source, proto, comment, target string
		var port uint16
		for i := 0; i < len(tokens)-1; i++ {
			switch tokens[i] {
			case "-s":
				source = tokens[i+1]
			case "-p":
				proto = tokens[i+1]
			case "--dport":
				if p, err := strconv.ParseUint(tokens[i+1], 10, 16); err == nil {
					port = uint16(p)
				}
			case "--comment":
				comment = tokens[i+1]
			case "-j":
				target = tokens[i+1]
			}
		}
		if port == 0 || source == "" || (proto != "tcp" && proto != "udp") {
			continue
		}

		var action Action
		switch target {
		case "ACCEPT":
			action = ActionAllow
		case "DROP", "REJECT":
			action = ActionDeny
		default:
			continue
		}

		rules = append(rules, ListedRule{
			Index:    index,
			Action:   action,
			Source:   NormalizeSource(source),
			Port:     port,
			Protocol: proto,
			Comment:  comment,
			Raw:      line,
		})
	}
	return rules, nil
}

// DeleteCommands removes a rule by its position in the chain. Positions
// shift on deletion, hence the descending-order contract on Client.
func (c *IptablesClient) DeleteCommands(r ListedRule) []engine.Command {
	return []engine.Command{{Path: "iptables", Args: []string{"-D", c.chain, strconv.Itoa(r.Index)}}}
}

// EnableCommands starts the iptables persistence service (iptables-services
// on the appliance image).
func (c *IptablesClient) EnableCommands() []engine.Command {
	return []engine.Command{{Path: "systemctl", Args: []string{"start", "iptables"}}}
}

// DisableCommands stops the iptables persistence service.
func (c *IptablesClient) DisableCommands() []engine.Command {
	return []engine.Command{{Path: "systemctl", Args: []string{"stop", "iptables"}}}
}

// StatusCommand lists the managed chain with line numbers.
func (c *IptablesClient) StatusCommand() engine.Command {
	return engine.Command{Path: "iptables", Args: []string{"-L", c.chain, "-n", "--line-numbers"}}
}

// splitQuoted splits a rule-spec line on spaces, keeping double-quoted
// segments (iptables quotes comments containing whitespace) as one token.
func splitQuoted(s string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

var _ Client = (*IptablesClient)(nil)
