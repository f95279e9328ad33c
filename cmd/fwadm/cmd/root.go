// Package cmd implements the fwadm CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/fwadm/internal/config"
)

var (
	cfgFile  string
	logLevel string
	dryRun   bool
	verbose  bool
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("fwadm version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "fwadm",
	Short: "fwadm manages host firewall rules on the transfer appliance",
	Long: "fwadm translates declarative access rules into commands for whichever\n" +
		"packet-filter backend is installed (ufw, firewalld or iptables), and reads\n" +
		"rule state back from the live backend. It can allow or deny services per\n" +
		"source, isolate a host to a permitted service subset, and reverse all of\n" +
		"that later without keeping a rule database of its own.",
	SilenceUsage: true,
	// No Run function — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print the backend commands without executing them")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (implies --log-level debug)")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("fwadm version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
