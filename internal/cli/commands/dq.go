package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDQCommand creates the dq command.
func NewDQCommand() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "dq",
		Short: "Show data-quality results",
		Long: `Show the data-quality rule results recorded for a run.

By default the latest run of the configured environment is shown; use --run
to inspect a specific run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			id := runID
			if id == "" {
				latest, err := store.GetLatestRun(cfg.Environment)
				if err != nil {
					return err
				}
				if latest == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "No runs recorded for environment %q\n", cfg.Environment)
					return nil
				}
				id = latest.ID
			}

			results, err := store.GetDQResultsForRun(id)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No data-quality results for run %s\n", id)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run %s\n", id)
			renderDQResults(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID to inspect (default: latest run)")

	return cmd
}
