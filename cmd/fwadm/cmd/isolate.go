package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	isolateHost     string
	isolateAllowed  string
	isolateComment  string
	unisolateTarget string
)

var isolateCmd = &cobra.Command{
	Use:   "isolate-host",
	Short: "Restrict a host to an allowed set of services",
	Long: `Isolate a host: allow the named services from it, then deny every other
common service. Allow rules are issued before deny rules so the host never
loses access to an allowed service mid-isolation.`,
	RunE: runIsolate,
}

var unisolateCmd = &cobra.Command{
	Use:   "unisolate-host",
	Short: "Remove all rules referencing a host",
	Long: `Remove every firewall rule whose source matches the host, both the
rules an earlier isolate-host created and any other rule naming the host.`,
	RunE: runUnisolate,
}

var listIsolatedCmd = &cobra.Command{
	Use:   "list-isolated-hosts",
	Short: "List hosts that look isolated",
	Long: `Infer isolation state from the live rule listing: a host counts as
isolated when it has both allow and deny rules scoped to it.`,
	RunE: runListIsolated,
}

func init() {
	isolateCmd.Flags().StringVar(&isolateHost, "host", "", "host address to isolate")
	isolateCmd.Flags().StringVar(&isolateAllowed, "allowed-services", "", "comma-separated services the host keeps access to")
	isolateCmd.Flags().StringVar(&isolateComment, "comment", "", "rule comment (default: configured tag)")
	isolateCmd.MarkFlagRequired("host")

	unisolateCmd.Flags().StringVar(&unisolateTarget, "host", "", "host address to release")
	unisolateCmd.MarkFlagRequired("host")

	rootCmd.AddCommand(isolateCmd)
	rootCmd.AddCommand(unisolateCmd)
	rootCmd.AddCommand(listIsolatedCmd)
}

func runIsolate(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	e.warnNotRoot()
	e.checker.WarnForeign([]string{isolateHost})

	allowed := splitCSV(strings.ToLower(isolateAllowed))
	results, err := e.composer.Isolate(cmd.Context(), isolateHost, allowed, e.comment(isolateComment), dryRun)
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	return printResults(cmd.OutOrStdout(), results, dryRun)
}

func runUnisolate(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	e.warnNotRoot()

	results, err := e.composer.Unisolate(cmd.Context(), unisolateTarget, dryRun)
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	return printResults(cmd.OutOrStdout(), results, dryRun)
}

func runListIsolated(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	hosts, err := e.composer.IsolatedHosts(cmd.Context())
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	if len(hosts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no isolated hosts")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tALLOWED PORTS\tDENIED PORTS")
	for _, h := range hosts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Host, joinPorts(h.AllowedPorts), joinPorts(h.DeniedPorts))
	}
	return tw.Flush()
}

func joinPorts(ports []uint16) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ",")
}
