package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		Long:  `Show the most recent pipeline runs with their status, duration, and gold row counts.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Run", "Env", "Status", "Started", "Duration", "Customers", "Work Orders", "Parts Sales"})

			for _, run := range runs {
				t.AppendRow(table.Row{
					run.ID,
					run.Environment,
					string(run.Status),
					run.StartedAt.UTC().Format(time.RFC3339),
					fmt.Sprintf("%.2fs", run.DurationSeconds),
					run.Counts.DimCustomer,
					run.Counts.FactWorkOrder,
					run.Counts.FactPartsSales,
				})
			}

			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show")

	return cmd
}
