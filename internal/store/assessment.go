package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/scoring"
)

var assessmentColumns = []string{"id", "candidate_id", "state", "abort_reason", "created_at", "updated_at"}

// assessmentRepo implements AssessmentRepo with SQL builders.
type assessmentRepo struct {
	s *Store
}

func (r *assessmentRepo) Create(ctx context.Context, candidateID string) (*Assessment, error) {
	now := r.s.now()
	a := &Assessment{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		State:       scoring.StateNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ins := entsql.Dialect(dialect.SQLite).Insert(tableAssessments).
		Columns(assessmentColumns...).
		Values(a.ID, a.CandidateID, string(a.State), string(a.AbortReason), formatTime(now), formatTime(now))
	if err := execQ(ctx, r.s.drv, ins); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return a, nil
}

func (r *assessmentRepo) Get(ctx context.Context, id string) (*Assessment, error) {
	return getAssessment(ctx, r.s.drv, id)
}

func getAssessment(ctx context.Context, ex dialect.ExecQuerier, id string) (*Assessment, error) {
	sel := entsql.Dialect(dialect.SQLite).Select(assessmentColumns...).
		From(entsql.Table(tableAssessments)).
		Where(entsql.EQ("id", id))

	var found *Assessment
	err := queryRows(ctx, ex, sel, func(rows *entsql.Rows) error {
		a, err := scanAssessment(rows)
		found = a
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query assessment: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return found, nil
}

func (r *assessmentRepo) SetState(ctx context.Context, id string, state scoring.AssessmentState) error {
	return r.transition(ctx, id, state, scoring.AbortNone)
}

func (r *assessmentRepo) Abort(ctx context.Context, id string, reason scoring.AbortReason) error {
	if reason == scoring.AbortNone {
		return fmt.Errorf("abort assessment %s: empty reason", id)
	}
	return r.transition(ctx, id, scoring.StateEndedByAbort, reason)
}

func (r *assessmentRepo) transition(ctx context.Context, id string, state scoring.AssessmentState, reason scoring.AbortReason) error {
	return r.s.withTx(ctx, func(tx dialect.Tx) error {
		a, err := getAssessment(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := scoring.Transition(a.State, state); err != nil {
			return fmt.Errorf("assessment %s: %w", id, err)
		}
		upd := entsql.Dialect(dialect.SQLite).Update(tableAssessments).
			Set("state", string(state)).
			Set("updated_at", formatTime(r.s.now())).
			Where(entsql.EQ("id", id))
		if reason != scoring.AbortNone {
			upd.Set("abort_reason", string(reason))
		}
		if err := execQ(ctx, tx, upd); err != nil {
			return fmt.Errorf("update assessment state: %w", err)
		}
		return nil
	})
}

func (r *assessmentRepo) AppendAnswer(ctx context.Context, id, challengeID string, result catalog.AnswerResult) (catalog.Answer, error) {
	seq, err := r.s.seq.Next(ctx)
	if err != nil {
		return catalog.Answer{}, err
	}

	var ans catalog.Answer
	err = r.s.withTx(ctx, func(tx dialect.Tx) error {
		a, err := getAssessment(ctx, tx, id)
		if err != nil {
			return err
		}
		if a.State != scoring.StateRunning {
			return fmt.Errorf("assessment %s in state %s: %w", id, a.State, ErrNotRunning)
		}

		b := entsql.Dialect(dialect.SQLite)
		count := b.Select(entsql.Count("*")).From(entsql.Table(tableAnswers)).Where(entsql.EQ("assessment_id", id))
		var position int
		if err := queryRows(ctx, tx, count, func(rows *entsql.Rows) error { return rows.Scan(&position) }); err != nil {
			return fmt.Errorf("count answers: %w", err)
		}

		ins := b.Insert(tableAnswers).
			Columns("sequence", "assessment_id", "challenge_id", "result", "position", "created_at").
			Values(seq, id, challengeID, string(result), position, formatTime(r.s.now()))
		if err := execQ(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
		ans = catalog.Answer{ChallengeID: challengeID, Result: result, Position: position}
		return nil
	})
	return ans, err
}

func (r *assessmentRepo) Answers(ctx context.Context, id string) ([]catalog.Answer, error) {
	sel := entsql.Dialect(dialect.SQLite).Select("challenge_id", "result", "position").
		From(entsql.Table(tableAnswers)).
		Where(entsql.EQ("assessment_id", id)).
		OrderBy("position")

	var out []catalog.Answer
	err := queryRows(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var (
			a      catalog.Answer
			result string
		)
		if err := rows.Scan(&a.ChallengeID, &result, &a.Position); err != nil {
			return err
		}
		a.Result = catalog.AnswerResult(result)
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return out, nil
}

func (r *assessmentRepo) ListByState(ctx context.Context, states ...scoring.AssessmentState) ([]Assessment, error) {
	sel := entsql.Dialect(dialect.SQLite).Select(assessmentColumns...).
		From(entsql.Table(tableAssessments)).
		OrderBy("created_at", "id")
	if len(states) > 0 {
		args := make([]any, len(states))
		for i, st := range states {
			args[i] = string(st)
		}
		sel.Where(entsql.In("state", args...))
	}

	var out []Assessment
	err := queryRows(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		a, err := scanAssessment(rows)
		if err != nil {
			return err
		}
		out = append(out, *a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return out, nil
}

func scanAssessment(rows *entsql.Rows) (*Assessment, error) {
	var (
		a                    Assessment
		state, reason        string
		createdAt, updatedAt string
	)
	if err := rows.Scan(&a.ID, &a.CandidateID, &state, &reason, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.State = scoring.AssessmentState(state)
	a.AbortReason = scoring.AbortReason(reason)

	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &a, nil
}
