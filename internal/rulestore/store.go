// Package rulestore reads normalized rule listings back from the live
// firewall backend. Backend state is the only source of truth: every List
// call re-runs the backend's listing command and re-parses its output, and
// nothing is cached across operations.
package rulestore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plexsphere/fwadm/internal/catalog"
	"github.com/plexsphere/fwadm/internal/engine"
	"github.com/plexsphere/fwadm/internal/firewall"
)

// Store adapts a backend's native rule listing into normalized records.
type Store struct {
	client firewall.Client
	eng    *engine.Engine
	logger *slog.Logger
}

// New creates a Store reading through the given client and engine.
func New(client firewall.Client, eng *engine.Engine, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		eng:    eng,
		logger: logger.With("component", "rulestore"),
	}
}

// List returns the current rule listing, freshly derived from backend output.
func (s *Store) List(ctx context.Context) ([]firewall.ListedRule, error) {
	stdout, err := s.eng.Capture(ctx, s.client.ListCommand())
	if err != nil {
		return nil, fmt.Errorf("rulestore: list: %w", err)
	}
	rules, err := s.client.ParseListing(stdout)
	if err != nil {
		return nil, fmt.Errorf("rulestore: list: %w", err)
	}
	s.logger.Debug("parsed backend listing", "backend", s.client.Name(), "rules", len(rules))
	return rules, nil
}

// ListFiltered returns the listed rules matching the predicate, preserving
// listing order.
func (s *Store) ListFiltered(ctx context.Context, pred func(firewall.ListedRule) bool) ([]firewall.ListedRule, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []firewall.ListedRule
	for _, r := range all {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListService returns the listed rules whose (port, protocol) belongs to the
// given service.
func (s *Store) ListService(ctx context.Context, svc catalog.Service) ([]firewall.ListedRule, error) {
	return s.ListFiltered(ctx, func(r firewall.ListedRule) bool {
		for _, p := range svc.Ports {
			if r.Port == p.Port && r.Protocol == p.Protocol {
				return true
			}
		}
		return false
	})
}

// ListHost returns the listed rules whose source matches the given host.
func (s *Store) ListHost(ctx context.Context, host string) ([]firewall.ListedRule, error) {
	want := firewall.NormalizeSource(host)
	return s.ListFiltered(ctx, func(r firewall.ListedRule) bool {
		return firewall.NormalizeSource(r.Source) == want
	})
}

// DeleteByIndex removes the rule at the given listing index. The listing is
// re-derived first so the index refers to current backend state.
func (s *Store) DeleteByIndex(ctx context.Context, index int, dryRun bool) ([]engine.Result, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if r.Index != index {
			continue
		}
		cmds := s.client.DeleteCommands(r)
		cmds = append(cmds, s.client.CommitCommands()...)
		return s.eng.Apply(ctx, cmds, dryRun), nil
	}
	return nil, fmt.Errorf("rulestore: delete: no rule with index %d", index)
}
