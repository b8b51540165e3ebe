package simulator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds parallel runs when none is configured.
const DefaultBatchConcurrency = 4

// Job is one independent run of a batch.
type Job struct {
	// ID identifies the run in logs and results; a UUID is assigned when empty.
	ID  string
	Sim *Simulator
}

// JobResult is the outcome of one job. Err is set when the run failed.
type JobResult struct {
	ID     string
	Result Result
	Err    error
}

// Recorder observes finished runs.
type Recorder interface {
	ObserveSimulation(endReason string, steps int)
}

// Batch runs independent simulations with bounded parallelism.
type Batch struct {
	Concurrency int
	Logger      *slog.Logger
	Recorder    Recorder
}

// RunBatch runs jobs with at most concurrency runs in flight.
func RunBatch(ctx context.Context, jobs []Job, concurrency int) ([]JobResult, error) {
	return Batch{Concurrency: concurrency}.Run(ctx, jobs)
}

// Run executes every job and returns the results in job order. A failed run
// is reported in its JobResult and does not stop the others; only context
// cancellation aborts the batch.
func (b Batch) Run(ctx context.Context, jobs []Job) ([]JobResult, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	results := make([]JobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		results[i].ID = job.ID

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if job.Sim == nil {
				results[i].Err = errors.New("nil simulator")
				return nil
			}
			res, err := job.Sim.Run()
			results[i] = JobResult{ID: job.ID, Result: res, Err: err}
			if err != nil {
				logger.Warn("simulation failed", "run_id", job.ID, "error", err)
				return nil
			}
			logger.Debug("simulation finished",
				"run_id", job.ID,
				"steps", len(res.Trace),
				"end_reason", res.EndReason,
				"capacity", res.Estimate.Capacity)
			if b.Recorder != nil {
				b.Recorder.ObserveSimulation(string(res.EndReason), len(res.Trace))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
