package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "show-status",
	Short: "Show the firewall backend status",
	Long:  "Print the selected backend and its native status output.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	out, err := e.eng.Capture(cmd.Context(), e.client.StatusCommand())
	if err != nil {
		return fmt.Errorf("fwadm status: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "backend: %s\n\n", e.client.Name())
	fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return nil
}
