package cmd

import (
	"fmt"
	"math/rand/v2"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/flash"
	"github.com/abhisek/adaptest/internal/report"
	"github.com/abhisek/adaptest/internal/scoring"
	"github.com/abhisek/adaptest/internal/simulator"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Simulate an assessment and store it",
	Example: "  adaptest record --catalog catalog.yaml --candidate alice --answers correct,incorrect,correct\n" +
		"  adaptest record --catalog catalog.yaml --candidate bob --capacity 1 --limit 10 --abort-reason candidate --score",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		candidate, _ := cmd.Flags().GetString("candidate")
		reason, _ := cmd.Flags().GetString("abort-reason")
		abort, err := scoring.ParseAbortReason(reason)
		if err != nil {
			return err
		}

		algo, err := flash.New(cfg.Flash)
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetUint64("seed")
		sim, err := newSimulator(cmd, algo, cat, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}
		res, err := sim.Run()
		if err != nil {
			return err
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.Assessments()
		a, err := repo.Create(ctx, candidate)
		if err != nil {
			return err
		}
		if err := repo.SetState(ctx, a.ID, scoring.StateRunning); err != nil {
			return err
		}
		for _, ans := range res.Answers {
			if _, err := repo.AppendAnswer(ctx, a.ID, ans.ChallengeID, ans.Result); err != nil {
				return fmt.Errorf("record answer: %w", err)
			}
		}

		switch {
		case abort != scoring.AbortNone:
			err = repo.Abort(ctx, a.ID, abort)
		case res.EndReason == simulator.EndedByAlgorithm:
			err = repo.SetState(ctx, a.ID, scoring.StateEndedByAlgorithm)
		default:
			err = repo.SetState(ctx, a.ID, scoring.StateEndedByScript)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "recorded assessment %s (%d answers)\n", a.ID, len(res.Answers))

		if withScore, _ := cmd.Flags().GetBool("score"); withScore {
			svc, err := newRescorer(cfg, st, cat, nil, newLogger(cfg))
			if err != nil {
				return err
			}
			sum, err := svc.Rescore(ctx, []string{a.ID})
			if err != nil {
				return err
			}
			if len(sum.Failed) > 0 {
				return sum.Failed[0].Err
			}
			latest, err := st.Results().Latest(ctx, a.ID)
			if err != nil {
				return err
			}
			lipgloss.Fprintln(out, report.RenderScore(scoring.Result{
				Status:          latest.Status,
				Score:           latest.Score,
				Capacity:        latest.Capacity,
				CompetenceMarks: latest.CompetenceMarks,
			}, cfg.Scoring.MaxReachableScore))
		}
		return nil
	},
}

func init() {
	recordCmd.Flags().String("catalog", "", "Challenge catalog file (yaml or json)")
	recordCmd.Flags().String("candidate", "", "Candidate id")
	recordCmd.Flags().StringSlice("answers", nil, "Scripted answers: correct, incorrect, abandoned or timed-out")
	recordCmd.Flags().Float64("capacity", 0, "Simulated candidate capacity")
	recordCmd.Flags().Bool("random", false, "Draw answers from the success probability at --capacity")
	recordCmd.Flags().Int("limit", 0, "Stop after this many answers (0 means until the algorithm ends)")
	recordCmd.Flags().String("pick", "first", "Candidate pick: first or random")
	recordCmd.Flags().Uint64("seed", 1, "Random seed")
	recordCmd.Flags().String("abort-reason", "", "End the assessment as aborted: candidate or technical")
	recordCmd.Flags().Bool("score", false, "Score the assessment once recorded")
	_ = recordCmd.MarkFlagRequired("candidate")
}
