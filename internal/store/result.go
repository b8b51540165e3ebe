package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/adaptest/internal/scoring"
)

var resultColumns = []string{"id", "assessment_id", "sequence", "capacity", "error_rate", "score", "status", "competence_marks", "created_at"}

// resultRepo implements ResultRepo with SQL builders.
type resultRepo struct {
	s *Store
}

func (r *resultRepo) Save(ctx context.Context, res *Result) error {
	marks, err := json.Marshal(res.CompetenceMarks)
	if err != nil {
		return fmt.Errorf("marshal competence marks: %w", err)
	}
	if res.CompetenceMarks == nil {
		marks = []byte("[]")
	}

	seq, err := r.s.seq.Next(ctx)
	if err != nil {
		return err
	}
	now := r.s.now()

	ins := entsql.Dialect(dialect.SQLite).Insert(tableResults).
		Columns(resultColumns[1:]...).
		Values(res.AssessmentID, seq, res.Capacity, res.ErrorRate, res.Score, string(res.Status), string(marks), formatTime(now))
	query, args := ins.Query()

	var sr sql.Result
	if err := r.s.drv.Exec(ctx, query, args, &sr); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	id, err := sr.LastInsertId()
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	res.ID = id
	res.Sequence = seq
	res.CreatedAt = now
	return nil
}

func (r *resultRepo) Latest(ctx context.Context, assessmentID string) (*Result, error) {
	sel := entsql.Dialect(dialect.SQLite).Select(resultColumns...).
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("assessment_id", assessmentID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1)

	var found *Result
	err := queryRows(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		res, err := scanResult(rows)
		found = res
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query latest result: %w", err)
	}
	return found, nil
}

func (r *resultRepo) Summary(ctx context.Context) (ResultSummary, error) {
	b := entsql.Dialect(dialect.SQLite)
	latest := b.Select(entsql.Max("sequence")).
		From(entsql.Table(tableResults)).
		GroupBy("assessment_id")
	sel := b.Select("status", entsql.Count("*"), entsql.Sum("score")).
		From(entsql.Table(tableResults)).
		Where(entsql.In("sequence", latest)).
		GroupBy("status")

	sum := ResultSummary{ByStatus: make(map[scoring.Status]int)}
	var total int64
	err := queryRows(ctx, r.s.drv, sel, func(rows *entsql.Rows) error {
		var (
			status string
			count  int
			scores int64
		)
		if err := rows.Scan(&status, &count, &scores); err != nil {
			return err
		}
		sum.ByStatus[scoring.Status(status)] = count
		sum.Total += count
		total += scores
		return nil
	})
	if err != nil {
		return ResultSummary{}, fmt.Errorf("summarize results: %w", err)
	}
	if sum.Total > 0 {
		sum.AverageScore = float64(total) / float64(sum.Total)
	}
	return sum, nil
}

func scanResult(rows *entsql.Rows) (*Result, error) {
	var (
		res               Result
		status, createdAt string
		marks             string
	)
	err := rows.Scan(&res.ID, &res.AssessmentID, &res.Sequence, &res.Capacity, &res.ErrorRate,
		&res.Score, &status, &marks, &createdAt)
	if err != nil {
		return nil, err
	}
	res.Status = scoring.Status(status)
	if err := json.Unmarshal([]byte(marks), &res.CompetenceMarks); err != nil {
		return nil, fmt.Errorf("unmarshal competence marks: %w", err)
	}
	if res.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &res, nil
}
