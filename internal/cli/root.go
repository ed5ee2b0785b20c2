// Package cli wires the cobra command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hireon/hireon/internal/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hireon",
		Short:         "Job recommendation and résumé matching service",
		Long:          "Hireon matches job seekers and résumés against job postings using skill overlap, category taxonomy and embedding similarity, and answers job-search questions with retrieval-augmented chat.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	root.AddCommand(newServeCmd())
	root.AddCommand(newIndexCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
