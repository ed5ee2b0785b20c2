package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the job similarity index",
		Long:  "Builds the similarity index from all stored job postings. With an existing index this is a no-op unless --force is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			application, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer application.close()

			stats, err := application.index.Rebuild(cmd.Context(), force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d jobs (backend: %s, status: %s)\n",
				stats.TotalJobs, stats.Backend, stats.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "rebuild even if an index exists")
	return cmd
}
