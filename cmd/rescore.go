package cmd

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/config"
	"github.com/abhisek/adaptest/internal/flash"
	"github.com/abhisek/adaptest/internal/metrics"
	"github.com/abhisek/adaptest/internal/rescoring"
	"github.com/abhisek/adaptest/internal/scoring"
	"github.com/abhisek/adaptest/internal/store"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute the scores of finished assessments",
	Long: "Rescore re-estimates the capacity of every finished assessment (or the ones\n" +
		"given with --id) against the catalog and stores a new result for each.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		reg := prometheus.NewRegistry()
		svc, err := newRescorer(cfg, st, cat, metrics.New(reg), newLogger(cfg))
		if err != nil {
			return err
		}

		ids, _ := cmd.Flags().GetStringSlice("id")
		var sum rescoring.Summary
		if len(ids) > 0 {
			sum, err = svc.Rescore(cmd.Context(), ids)
		} else {
			sum, err = svc.RescoreAll(cmd.Context())
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rescored %d of %d assessments\n", sum.Scored, sum.Attempted)
		for status, n := range sum.ByStatus {
			fmt.Fprintf(out, "  %-10s %d\n", status, n)
		}
		for _, f := range sum.Failed {
			fmt.Fprintf(out, "  failed %s: %v\n", f.AssessmentID, f.Err)
		}

		if path, _ := cmd.Flags().GetString("metrics-out"); path != "" {
			if err := metrics.WriteTextfile(reg, path); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		if len(sum.Failed) > 0 {
			return fmt.Errorf("%d assessments failed to rescore", len(sum.Failed))
		}
		return nil
	},
}

func newRescorer(cfg config.Config, st *store.Store, cat *catalog.Catalog, m *metrics.Metrics, logger *slog.Logger) (*rescoring.Service, error) {
	algo, err := flash.New(cfg.Flash)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(cfg.Scoring)
	if err != nil {
		return nil, err
	}
	return &rescoring.Service{
		Assessments: st.Assessments(),
		Results:     st.Results(),
		Algorithm:   algo,
		Scorer:      scorer,
		Catalog:     cat,
		Metrics:     m,
		Logger:      logger,
		Concurrency: cfg.Rescoring.Concurrency,
	}, nil
}

func init() {
	rescoreCmd.Flags().String("catalog", "", "Challenge catalog file (yaml or json)")
	rescoreCmd.Flags().StringSlice("id", nil, "Assessment ids to rescore (default: every finished assessment)")
	rescoreCmd.Flags().String("metrics-out", "", "Write Prometheus metrics to this textfile")
}
