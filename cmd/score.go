package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/report"
	"github.com/abhisek/adaptest/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:     "score",
	Short:   "Score a final capacity",
	Example: "  adaptest score --capacity 0.8 --answers 32\n  adaptest score --capacity -1.2 --answers 5 --abort-reason candidate",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		scorer, err := scoring.NewScorer(cfg.Scoring)
		if err != nil {
			return err
		}

		capacity, _ := cmd.Flags().GetFloat64("capacity")
		count, _ := cmd.Flags().GetInt("answers")
		if count < 0 {
			return fmt.Errorf("--answers must be >= 0, got %d", count)
		}
		reason, _ := cmd.Flags().GetString("abort-reason")
		abort, err := scoring.ParseAbortReason(reason)
		if err != nil {
			return err
		}

		// Only the number of answers matters for the status.
		answers := make([]catalog.Answer, count)
		for i := range answers {
			answers[i].Position = i
		}
		res := scorer.Score(scoring.Input{Capacity: capacity, Answers: answers, AbortReason: abort})
		lipgloss.Fprintln(cmd.OutOrStdout(), report.RenderScore(res, cfg.Scoring.MaxReachableScore))
		return nil
	},
}

func init() {
	scoreCmd.Flags().Float64("capacity", 0, "Final capacity of the assessment")
	scoreCmd.Flags().Int("answers", 0, "Number of answers given")
	scoreCmd.Flags().String("abort-reason", "", "Abort reason: candidate or technical (empty when not aborted)")
	_ = scoreCmd.MarkFlagRequired("capacity")
}
