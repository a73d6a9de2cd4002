package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stale-stars.",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("stale-stars CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
