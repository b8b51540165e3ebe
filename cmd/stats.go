package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/report"
	"github.com/abhisek/adaptest/internal/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored assessment statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		sum, err := st.Results().Summary(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, report.RenderSummary(sum))

		pending, err := st.Assessments().ListByState(ctx,
			scoring.StateEndedByAlgorithm, scoring.StateEndedByScript, scoring.StateEndedByAbort)
		if err != nil {
			return err
		}
		running, err := st.Assessments().ListByState(ctx, scoring.StateNotStarted, scoring.StateRunning)
		if err != nil {
			return err
		}
		lipgloss.Fprintf(out, "%d awaiting scoring, %d in progress\n", len(pending), len(running))

		if path, _ := cmd.Flags().GetString("catalog"); path != "" {
			cat, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			lipgloss.Fprintln(out, report.RenderCatalogStats(cat.Stats()))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("catalog", "", "Also show counts for this catalog file")
}
