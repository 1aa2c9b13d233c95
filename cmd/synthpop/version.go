package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show synthpop version information",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "synthpop %s (%s)\nGo: %s %s/%s\n",
			version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
