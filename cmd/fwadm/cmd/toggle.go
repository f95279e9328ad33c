package cmd

import (
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable-firewall",
	Short: "Enable the firewall backend",
	RunE:  runEnable,
}

var disableCmd = &cobra.Command{
	Use:   "disable-firewall",
	Short: "Disable the firewall backend",
	RunE:  runDisable,
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runEnable(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	e.warnNotRoot()
	results := e.eng.Apply(cmd.Context(), e.client.EnableCommands(), dryRun)
	return printResults(cmd.OutOrStdout(), results, dryRun)
}

func runDisable(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	e.warnNotRoot()
	results := e.eng.Apply(cmd.Context(), e.client.DisableCommands(), dryRun)
	return printResults(cmd.OutOrStdout(), results, dryRun)
}
