package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteRuleIndex int

var listRulesCmd = &cobra.Command{
	Use:   "list-firewall-rules",
	Short: "List the current firewall rules",
	Long:  "Parse the backend's native rule listing and print it as a normalized table.",
	RunE:  runListRules,
}

var deleteRuleCmd = &cobra.Command{
	Use:   "delete-firewall-rule",
	Short: "Delete a firewall rule by listing index",
	RunE:  runDeleteRule,
}

func init() {
	deleteRuleCmd.Flags().IntVar(&deleteRuleIndex, "index", 0, "listing index of the rule to delete (see list-firewall-rules)")
	deleteRuleCmd.MarkFlagRequired("index")

	rootCmd.AddCommand(listRulesCmd)
	rootCmd.AddCommand(deleteRuleCmd)
}

func runListRules(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	rules, err := e.store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	printListing(cmd.OutOrStdout(), rules)
	return nil
}

func runDeleteRule(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	e.warnNotRoot()
	results, err := e.store.DeleteByIndex(cmd.Context(), deleteRuleIndex, dryRun)
	if err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	return printResults(cmd.OutOrStdout(), results, dryRun)
}
