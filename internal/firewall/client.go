package firewall

import "github.com/plexsphere/fwadm/internal/engine"

// Client is the backend strategy interface. Exactly one Client is selected
// per invocation (see Detect) and every command in that invocation targets
// it. Implementations translate concrete rules into their backend's command
// grammar and parse the backend's native listing output back into normalized
// records; translation is purely syntactic and never changes rule semantics.
type Client interface {
	// Name returns the backend identifier (ufw, firewalld, iptables).
	Name() string

	// RuleCommands translates one fully concrete rule into the backend
	// invocations that realize it.
	RuleCommands(r Rule) []engine.Command

	// CommitCommands returns the invocations needed to make a batch of rule
	// or delete commands take effect. Backends with immediate effect return
	// nil; firewalld returns its reload.
	CommitCommands() []engine.Command

	// ListCommand returns the backend's native rule listing invocation.
	ListCommand() engine.Command

	// ParseListing parses the listing command's stdout into normalized rule
	// records. Lines that do not describe a port rule are skipped.
	ParseListing(stdout string) ([]ListedRule, error)

	// DeleteCommands returns the invocations that remove a listed rule.
	// Index-addressed backends require callers deleting several rules to
	// proceed in descending index order.
	DeleteCommands(r ListedRule) []engine.Command

	// EnableCommands and DisableCommands toggle the backend's global
	// enabled state.
	EnableCommands() []engine.Command
	DisableCommands() []engine.Command

	// StatusCommand returns the backend's status invocation.
	StatusCommand() engine.Command
}

// ListedRule is one normalized entry of a backend rule listing. Listings are
// always re-derived by parsing live backend output; they are the engine's
// only memory of past operations.
type ListedRule struct {
	// Index is the 1-based position in the backend listing, used for
	// index-addressed deletion.
	Index    int
	Action   Action
	Source   string
	Port     uint16
	Protocol string
	Comment  string
	// Raw preserves the backend-native rule text for backends that address
	// rules by content rather than index (firewalld rich rules).
	Raw string
}

// Matches reports whether the listed rule has the same identity as the given
// abstract rule: action, source, port and protocol. Comments are ignored;
// they are labels, not identity.
func (l ListedRule) Matches(r Rule) bool {
	return l.Action == r.Action &&
		NormalizeSource(l.Source) == NormalizeSource(r.Source) &&
		l.Port == r.Port &&
		l.Protocol == string(r.Protocol)
}
