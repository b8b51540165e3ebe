// Package rescoring recomputes the scores of stored assessments with
// bounded parallelism.
package rescoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/flash"
	"github.com/abhisek/adaptest/internal/metrics"
	"github.com/abhisek/adaptest/internal/scoring"
	"github.com/abhisek/adaptest/internal/store"
)

// DefaultConcurrency is used when Service.Concurrency is not set.
const DefaultConcurrency = 4

// ErrNotFinished is returned for assessments that have not ended yet.
var ErrNotFinished = errors.New("assessment has not ended")

// Failure is one assessment that could not be rescored.
type Failure struct {
	AssessmentID string
	Err          error
}

// Summary reports a rescoring batch.
type Summary struct {
	Attempted int
	Scored    int
	ByStatus  map[scoring.Status]int
	Failed    []Failure
}

// Service rescores stored assessments against a catalog.
type Service struct {
	Assessments store.AssessmentRepo
	Results     store.ResultRepo
	Algorithm   *flash.Algorithm
	Scorer      *scoring.Scorer
	Catalog     *catalog.Catalog

	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Tracer      trace.Tracer
	Concurrency int
}

// RescoreAll rescores every ended or already scored assessment.
func (s *Service) RescoreAll(ctx context.Context) (Summary, error) {
	list, err := s.Assessments.ListByState(ctx,
		scoring.StateEndedByAlgorithm,
		scoring.StateEndedByScript,
		scoring.StateEndedByAbort,
		scoring.StateScored,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("list assessments: %w", err)
	}
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	return s.Rescore(ctx, ids)
}

// Rescore rescores the given assessments. A failing assessment is logged
// and reported in Summary.Failed without stopping the others; only context
// cancellation aborts the batch.
func (s *Service) Rescore(ctx context.Context, ids []string) (Summary, error) {
	logger := s.logger()
	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	sum := Summary{ByStatus: make(map[scoring.Status]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.rescoreOne(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			sum.Attempted++
			if err != nil {
				logger.Warn("rescore failed", "assessment_id", id, "error", err)
				sum.Failed = append(sum.Failed, Failure{AssessmentID: id, Err: err})
				return nil
			}
			sum.Scored++
			sum.ByStatus[res.Status]++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	logger.Info("rescore finished",
		"attempted", sum.Attempted,
		"scored", sum.Scored,
		"failed", len(sum.Failed))
	return sum, nil
}

func (s *Service) rescoreOne(ctx context.Context, id string) (res *store.Result, err error) {
	ctx, span := s.tracer().Start(ctx, "rescoring.assessment",
		trace.WithAttributes(attribute.String("assessment.id", id)))
	start := time.Now()
	defer func() {
		s.Metrics.ObserveRescore(time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	a, err := s.Assessments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.State.IsTerminal() && a.State != scoring.StateScored {
		return nil, fmt.Errorf("assessment %s in state %s: %w", id, a.State, ErrNotFinished)
	}

	answers, err := s.Assessments.Answers(ctx, id)
	if err != nil {
		return nil, err
	}
	est := s.Algorithm.Estimate(answers, s.Catalog)
	scored, err := s.Scorer.ScoreFinished(a.State, scoring.Input{
		Capacity:    est.Capacity,
		Answers:     answers,
		AbortReason: a.AbortReason,
	})
	if err != nil {
		return nil, err
	}

	res = &store.Result{
		AssessmentID:    id,
		Capacity:        est.Capacity,
		ErrorRate:       est.ErrorRate,
		Score:           scored.Score,
		Status:          scored.Status,
		CompetenceMarks: scored.CompetenceMarks,
	}
	if err := s.Results.Save(ctx, res); err != nil {
		return nil, err
	}
	if a.State.IsTerminal() {
		if err := s.Assessments.SetState(ctx, id, scoring.StateScored); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int("answers", len(answers)),
		attribute.Float64("capacity", est.Capacity),
		attribute.Int("score", scored.Score),
		attribute.String("status", string(scored.Status)),
	)
	s.Metrics.ObserveScoring(string(scored.Status), scored.Score)
	return res, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer == nil {
		return otel.Tracer("adaptest/rescoring")
	}
	return s.Tracer
}
