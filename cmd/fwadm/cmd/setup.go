package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/plexsphere/fwadm/internal/catalog"
	"github.com/plexsphere/fwadm/internal/config"
	"github.com/plexsphere/fwadm/internal/engine"
	"github.com/plexsphere/fwadm/internal/firewall"
	"github.com/plexsphere/fwadm/internal/isolation"
	"github.com/plexsphere/fwadm/internal/netinfo"
	"github.com/plexsphere/fwadm/internal/rulestore"
)

// env wires the configured subsystems for one invocation. Backend detection
// happens exactly once here; every command in the invocation targets the
// selected client.
type env struct {
	cfg      *config.Config
	cat      *catalog.Catalog
	client   firewall.Client
	eng      *engine.Engine
	store    *rulestore.Store
	composer *isolation.Composer
	checker  *netinfo.Checker
	logger   *slog.Logger
}

// newEnv loads the configuration, detects the backend and wires the
// subsystems. Detection failure is fatal: without a backend no rule command
// can be issued.
func newEnv() (*env, error) {
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("fwadm: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	client, err := firewall.Detect(cfg.Firewall, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("fwadm: %w", err)
	}

	cat := cfg.Catalog()
	eng := engine.New(engine.NewExecRunner(cfg.Engine), logger)
	store := rulestore.New(client, eng, logger)

	return &env{
		cfg:      cfg,
		cat:      cat,
		client:   client,
		eng:      eng,
		store:    store,
		composer: isolation.NewComposer(cat, client, eng, store, logger),
		checker:  netinfo.NewChecker(logger),
		logger:   logger,
	}, nil
}

// newLogger builds the process logger. --verbose and --log-level override
// the configured level.
func newLogger(configured string) *slog.Logger {
	levelName := configured
	if logLevel != "" {
		levelName = logLevel
	}
	if verbose {
		levelName = "debug"
	}

	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// warnNotRoot logs a warning when a mutating command runs unprivileged. The
// backend will refuse the mutation itself; this just makes the refusal less
// mysterious.
func (e *env) warnNotRoot() {
	if os.Geteuid() != 0 {
		e.logger.Warn("not running as root, backend commands will likely fail")
	}
}

// comment returns the explicit comment or the configured default tag.
func (e *env) comment(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return e.cfg.DefaultComment
}

// printResults renders per-command outcomes and the final summary. It
// returns an error when any command failed, so the process exits non-zero.
func printResults(w io.Writer, results []engine.Result, dry bool) error {
	verb := "applied"
	if dry {
		verb = "would apply"
	}

	failed := 0
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "skipped: %s (%s)\n", r.Command, r.Message)
		case r.OK:
			fmt.Fprintf(w, "%s: %s\n", verb, r.Command)
		default:
			failed++
			fmt.Fprintf(w, "FAILED:  %s (%s)\n", r.Command, r.Message)
		}
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "nothing to do")
		return nil
	}
	if failed > 0 {
		fmt.Fprintf(w, "\n%d of %d commands failed\n", failed, len(results))
		return fmt.Errorf("fwadm: %d of %d commands failed", failed, len(results))
	}
	fmt.Fprintf(w, "\nall %d commands succeeded\n", len(results))
	return nil
}

// printListing renders a rule listing as an aligned table.
func printListing(w io.Writer, rules []firewall.ListedRule) {
	if len(rules) == 0 {
		fmt.Fprintln(w, "no matching rules")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tACTION\tSOURCE\tPORT\tPROTO\tCOMMENT")
	for _, r := range rules {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", r.Index, r.Action, r.Source, r.Port, r.Protocol, r.Comment)
	}
	tw.Flush()
}

// splitCSV splits a comma-separated flag value, trimming whitespace and
// dropping empty elements.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePortsCSV parses a comma-separated port list.
func parsePortsCSV(s string) ([]uint16, error) {
	var ports []uint16
	for _, part := range splitCSV(s) {
		port, err := strconv.ParseUint(part, 10, 16)
		if err != nil || port == 0 {
			return nil, fmt.Errorf("fwadm: invalid port %q", part)
		}
		ports = append(ports, uint16(port))
	}
	return ports, nil
}
