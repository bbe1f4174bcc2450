package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, can be set at build time via ldflags
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long: `Print the clubportal build: release, commit and build date, plus the
event service the portal is configured to talk to.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "clubportal version %s\n", Version)
		fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
		fmt.Fprintf(out, "Built: %s\n", BuildDate)
		if current != nil {
			fmt.Fprintf(out, "Event service: %s\n", current.client.BaseURL())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
