package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/fwadm/internal/firewall"
)

var (
	sambaSources string
	sambaComment string
)

var allowSambaCmd = &cobra.Command{
	Use:   "allow-samba-from",
	Short: "Allow Samba access from the given sources",
	Long: `Allow the full Samba port set (445/tcp, 139/tcp, 137/udp, 138/udp)
from each of the given source addresses or CIDR networks.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSambaRule(cmd, firewall.ActionAllow)
	},
}

var denySambaCmd = &cobra.Command{
	Use:   "deny-samba-from",
	Short: "Deny Samba access from the given sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSambaRule(cmd, firewall.ActionDeny)
	},
}

var listSambaCmd = &cobra.Command{
	Use:   "list-samba-rules",
	Short: "List firewall rules covering Samba ports",
	RunE:  runListSamba,
}

func init() {
	for _, c := range []*cobra.Command{allowSambaCmd, denySambaCmd} {
		c.Flags().StringVar(&sambaSources, "sources", "", "comma-separated source addresses or CIDR networks")
		c.Flags().StringVar(&sambaComment, "comment", "", "rule comment (default: configured tag)")
		c.MarkFlagRequired("sources")
	}

	rootCmd.AddCommand(allowSambaCmd)
	rootCmd.AddCommand(denySambaCmd)
	rootCmd.AddCommand(listSambaCmd)
}

func runSambaRule(cmd *cobra.Command, action firewall.Action) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	e.warnNotRoot()

	sources := splitCSV(sambaSources)
	e.checker.WarnForeign(sources)

	req := firewall.Request{
		Action:  action,
		Sources: sources,
		Service: "samba",
		Comment: e.comment(sambaComment),
	}
	results, err := e.composer.Apply(cmd.Context(), req, dryRun)
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	return printResults(cmd.OutOrStdout(), results, dryRun)
}

func runListSamba(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	svc, err := e.cat.Resolve("samba")
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	rules, err := e.store.ListService(cmd.Context(), svc)
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	printListing(cmd.OutOrStdout(), rules)
	return nil
}
