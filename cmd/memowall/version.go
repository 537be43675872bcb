package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/memowall"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of memowall",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "memowall version %s\n", strings.TrimSpace(memowall.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
