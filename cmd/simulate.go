package cmd

import (
	"fmt"
	"math/rand/v2"

	"charm.land/lipgloss/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/config"
	"github.com/abhisek/adaptest/internal/flash"
	"github.com/abhisek/adaptest/internal/metrics"
	"github.com/abhisek/adaptest/internal/report"
	"github.com/abhisek/adaptest/internal/scoring"
	"github.com/abhisek/adaptest/internal/simulator"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the flash algorithm against scripted or simulated answers",
	Example: "  adaptest simulate --catalog catalog.yaml --answers correct,correct,incorrect\n" +
		"  adaptest simulate --catalog catalog.yaml --capacity 1.5 --limit 20 --score\n" +
		"  adaptest simulate --catalog catalog.yaml --capacity 0 --random --runs 100",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		algo, err := flash.New(cfg.Flash)
		if err != nil {
			return err
		}

		runs, _ := cmd.Flags().GetInt("runs")
		seed, _ := cmd.Flags().GetUint64("seed")
		metricsOut, _ := cmd.Flags().GetString("metrics-out")

		reg := prometheus.NewRegistry()
		var m *metrics.Metrics
		if metricsOut != "" {
			m = metrics.New(reg)
		}

		if runs > 1 {
			if err := simulateBatch(cmd, cfg, algo, cat, runs, seed, m); err != nil {
				return err
			}
		} else {
			rng := rand.New(rand.NewPCG(seed, seed))
			sim, err := newSimulator(cmd, algo, cat, rng)
			if err != nil {
				return err
			}
			res, err := sim.Run()
			if err != nil {
				return err
			}
			m.ObserveSimulation(string(res.EndReason), len(res.Answers))
			lipgloss.Fprintln(cmd.OutOrStdout(), report.RenderTrace(res))

			if withScore, _ := cmd.Flags().GetBool("score"); withScore {
				scorer, err := scoring.NewScorer(cfg.Scoring)
				if err != nil {
					return err
				}
				scored := scorer.Score(scoring.Input{Capacity: res.Estimate.Capacity, Answers: res.Answers})
				m.ObserveScoring(string(scored.Status), scored.Score)
				lipgloss.Fprintln(cmd.OutOrStdout(), report.RenderScore(scored, cfg.Scoring.MaxReachableScore))
			}
		}

		if metricsOut != "" {
			if err := metrics.WriteTextfile(reg, metricsOut); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		return nil
	},
}

// newSimulator builds a simulator from the answer and pick flags.
func newSimulator(cmd *cobra.Command, algo *flash.Algorithm, cat *catalog.Catalog, rng *rand.Rand) (*simulator.Simulator, error) {
	var pick simulator.ChallengePicker = simulator.FirstCandidate
	if mode, _ := cmd.Flags().GetString("pick"); mode == "random" {
		pick = simulator.RandomCandidate(rng)
	} else if mode != "first" {
		return nil, fmt.Errorf("unknown --pick %q (want first or random)", mode)
	}

	var answers simulator.AnswerPicker
	script, _ := cmd.Flags().GetStringSlice("answers")
	limit, _ := cmd.Flags().GetInt("limit")
	capacity, _ := cmd.Flags().GetFloat64("capacity")
	random, _ := cmd.Flags().GetBool("random")

	switch {
	case len(script) > 0 && cmd.Flags().Changed("capacity"):
		return nil, fmt.Errorf("use --answers or --capacity, not both")
	case len(script) > 0:
		results, err := catalog.ParseResults(script)
		if err != nil {
			return nil, err
		}
		answers = simulator.ScriptedAnswers(results)
	case !cmd.Flags().Changed("capacity"):
		return nil, fmt.Errorf("one of --answers or --capacity is required")
	case random:
		answers = simulator.ProbabilisticAnswers{Capacity: capacity, Limit: limit, Rand: rng}
	default:
		answers = simulator.CapacityAnswers{Capacity: capacity, Limit: limit}
	}
	return simulator.New(algo, cat, pick, answers)
}

func simulateBatch(cmd *cobra.Command, cfg config.Config, algo *flash.Algorithm, cat *catalog.Catalog, runs int, seed uint64, m *metrics.Metrics) error {
	jobs := make([]simulator.Job, runs)
	for i := range jobs {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		sim, err := newSimulator(cmd, algo, cat, rng)
		if err != nil {
			return err
		}
		jobs[i] = simulator.Job{Sim: sim}
	}

	batch := simulator.Batch{
		Concurrency: cfg.Rescoring.Concurrency,
		Logger:      newLogger(cfg),
		Recorder:    m,
	}
	results, err := batch.Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	var total, failed int
	var capacity float64
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		total++
		capacity += r.Result.Estimate.Capacity
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d runs, %d failed\n", runs, failed)
	if total > 0 {
		fmt.Fprintf(out, "mean capacity: %.4f\n", capacity/float64(total))
	}
	return nil
}

func init() {
	simulateCmd.Flags().String("catalog", "", "Challenge catalog file (yaml or json)")
	simulateCmd.Flags().StringSlice("answers", nil, "Scripted answers: correct, incorrect, abandoned or timed-out")
	simulateCmd.Flags().Float64("capacity", 0, "Simulated candidate capacity")
	simulateCmd.Flags().Bool("random", false, "Draw answers from the success probability at --capacity")
	simulateCmd.Flags().Int("limit", 0, "Stop after this many answers (0 means until the algorithm ends)")
	simulateCmd.Flags().String("pick", "first", "Candidate pick: first or random")
	simulateCmd.Flags().Uint64("seed", 1, "Random seed")
	simulateCmd.Flags().Int("runs", 1, "Number of independent runs")
	simulateCmd.Flags().Bool("score", false, "Score the final capacity")
	simulateCmd.Flags().String("metrics-out", "", "Write Prometheus metrics to this textfile")
}
