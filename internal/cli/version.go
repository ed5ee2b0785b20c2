package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hireon/hireon/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hireon %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
