package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect-firewall",
	Short: "Detect and print the active firewall backend",
	Long: "Probe the host for firewall control programs in fixed precedence order\n" +
		"(ufw, then firewall-cmd, then iptables) and print the selected backend.",
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), e.client.Name())
	return nil
}
