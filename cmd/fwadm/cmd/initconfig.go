package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/fwadm/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default configuration file",
	Long: `Write a commented default configuration to the --config path. Fails if
the file already exists; fwadm never overwrites operator configuration.`,
	RunE: runInitConfig,
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, _ []string) error {
	if err := config.WriteDefault(cfgFile); err != nil {
		return fmt.Errorf("fwadm: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfgFile)
	return nil
}
