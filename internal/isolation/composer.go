// Package isolation composes multi-rule firewall transactions: simple
// allow/deny requests and host isolation policies that restrict one host to
// a permitted service subset.
package isolation

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"

	"github.com/plexsphere/fwadm/internal/catalog"
	"github.com/plexsphere/fwadm/internal/engine"
	"github.com/plexsphere/fwadm/internal/firewall"
	"github.com/plexsphere/fwadm/internal/rulestore"
)

// Composer builds and applies ordered rule transactions against the active
// backend. It holds no state between operations: rule state is always
// re-derived from the live listing.
type Composer struct {
	cat    *catalog.Catalog
	client firewall.Client
	eng    *engine.Engine
	store  *rulestore.Store
	logger *slog.Logger
}

// NewComposer creates a Composer bound to the given backend client.
func NewComposer(cat *catalog.Catalog, client firewall.Client, eng *engine.Engine, store *rulestore.Store, logger *slog.Logger) *Composer {
	return &Composer{
		cat:    cat,
		client: client,
		eng:    eng,
		store:  store,
		logger: logger.With("component", "isolation"),
	}
}

// Plan is the ordered rule set derived from a host isolation policy. Allows
// are applied strictly before denies so the host is never observed blocked
// from a service it should be permitted, not even transiently.
type Plan struct {
	Allows []firewall.Rule
	Denies []firewall.Rule
}

// Rules returns the plan's rules in application order.
func (p Plan) Rules() []firewall.Rule {
	out := make([]firewall.Rule, 0, len(p.Allows)+len(p.Denies))
	out = append(out, p.Allows...)
	out = append(out, p.Denies...)
	return out
}

// BuildPlan derives the concrete rule set for isolating host to the given
// services. Every allowed service is resolved before any rule is produced,
// so an unknown name fails the whole operation up front. The deny set is the
// common-services subset of the catalog minus the allowed services, never
// the full catalog.
func (c *Composer) BuildPlan(host string, allowedServices []string, comment string) (Plan, error) {
	if net.ParseIP(host) == nil {
		return Plan{}, fmt.Errorf("isolation: host %q: %w", host, firewall.ErrInvalidSource)
	}

	allowed := make(map[string]bool, len(allowedServices))
	var plan Plan
	for _, name := range allowedServices {
		svc, err := c.cat.Resolve(name)
		if err != nil {
			return Plan{}, fmt.Errorf("isolation: %w", err)
		}
		allowed[svc.Name] = true
		for _, p := range svc.Ports {
			plan.Allows = append(plan.Allows, firewall.Rule{
				Action:   firewall.ActionAllow,
				Source:   host,
				Port:     p.Port,
				Protocol: firewall.Protocol(p.Protocol),
				Comment:  comment,
			})
		}
	}

	for _, svc := range c.cat.Common() {
		if allowed[svc.Name] {
			continue
		}
		for _, p := range svc.Ports {
			plan.Denies = append(plan.Denies, firewall.Rule{
				Action:   firewall.ActionDeny,
				Source:   host,
				Port:     p.Port,
				Protocol: firewall.Protocol(p.Protocol),
				Comment:  comment,
			})
		}
	}

	return plan, nil
}

// Isolate applies a host isolation policy: allow the permitted services,
// then deny the remaining common services. Re-applying the same policy is
// idempotent: rules already present on the backend (same action, source,
// port and protocol) are skipped and reported as successes.
func (c *Composer) Isolate(ctx context.Context, host string, allowedServices []string, comment string, dryRun bool) ([]engine.Result, error) {
	plan, err := c.BuildPlan(host, allowedServices, comment)
	if err != nil {
		return nil, err
	}

	existing, err := c.currentListing(ctx, dryRun)
	if err != nil {
		return nil, err
	}

	c.logger.Info("isolating host",
		"host", host,
		"allows", len(plan.Allows),
		"denies", len(plan.Denies),
		"dry_run", dryRun,
	)

	return c.applyRules(ctx, plan.Rules(), existing, dryRun), nil
}

// Apply expands a simple allow/deny request and applies it with the same
// duplicate handling as Isolate.
func (c *Composer) Apply(ctx context.Context, req firewall.Request, dryRun bool) ([]engine.Result, error) {
	rules, err := firewall.Expand(req, c.cat)
	if err != nil {
		return nil, err
	}

	existing, err := c.currentListing(ctx, dryRun)
	if err != nil {
		return nil, err
	}

	return c.applyRules(ctx, rules, existing, dryRun), nil
}

// Unisolate removes every rule whose source matches the host. The backend
// does not record which rules belong to an isolation policy, so this is
// host-wide by design: rules added by plain allow/deny commands for the same
// host are removed too.
func (c *Composer) Unisolate(ctx context.Context, host string, dryRun bool) ([]engine.Result, error) {
	if net.ParseIP(host) == nil {
		return nil, fmt.Errorf("isolation: host %q: %w", host, firewall.ErrInvalidSource)
	}

	candidates, err := c.store.ListHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("isolation: unisolate: %w", err)
	}
	if len(candidates) == 0 {
		c.logger.Info("no rules reference host, nothing to remove", "host", host)
		return nil, nil
	}

	// Descending index order: index-addressed backends renumber on delete.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Index > candidates[j].Index })

	var results []engine.Result
	for _, r := range candidates {
		results = append(results, c.eng.Apply(ctx, c.client.DeleteCommands(r), dryRun)...)
	}
	results = append(results, c.eng.Apply(ctx, c.client.CommitCommands(), dryRun)...)

	c.logger.Info("unisolated host", "host", host, "removed", len(candidates), "dry_run", dryRun)
	return results, nil
}

// currentListing fetches the live listing for duplicate detection. In
// dry-run mode a failed read degrades to an empty listing so simulation
// works on hosts where the backend is not reachable.
func (c *Composer) currentListing(ctx context.Context, dryRun bool) ([]firewall.ListedRule, error) {
	existing, err := c.store.List(ctx)
	if err != nil {
		if dryRun {
			c.logger.Debug("listing unavailable in dry-run, assuming empty", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("isolation: %w", err)
	}
	return existing, nil
}

// applyRules translates and applies rules one at a time, preserving order.
// Rules already present are skipped and reported as successes; a commit is
// appended only when at least one rule command was issued.
func (c *Composer) applyRules(ctx context.Context, rules []firewall.Rule, existing []firewall.ListedRule, dryRun bool) []engine.Result {
	var results []engine.Result
	mutated := false
	for _, rule := range rules {
		if listed, dup := findDuplicate(existing, rule); dup {
			c.logger.Debug("skipping duplicate rule",
				"source", rule.Source,
				"port", rule.Port,
				"protocol", rule.Protocol,
			)
			results = append(results, engine.Result{
				Command: c.client.RuleCommands(rule)[0].Line(),
				OK:      true,
				Skipped: true,
				Message: fmt.Sprintf("identical rule already present (index %d)", listed.Index),
			})
			continue
		}
		mutated = true
		results = append(results, c.eng.Apply(ctx, c.client.RuleCommands(rule), dryRun)...)
	}
	if mutated {
		results = append(results, c.eng.Apply(ctx, c.client.CommitCommands(), dryRun)...)
	}
	return results
}

// findDuplicate reports whether an identical rule already exists on the backend.
func findDuplicate(existing []firewall.ListedRule, rule firewall.Rule) (firewall.ListedRule, bool) {
	for _, l := range existing {
		if l.Matches(rule) {
			return l, true
		}
	}
	return firewall.ListedRule{}, false
}
