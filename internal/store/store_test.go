package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "adaptest.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// runningAssessment creates an assessment and starts it.
func runningAssessment(t *testing.T, s *Store, candidate string) *Assessment {
	t.Helper()
	ctx := context.Background()
	a, err := s.Assessments().Create(ctx, candidate)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Assessments().SetState(ctx, a.ID, scoring.StateRunning); err != nil {
		t.Fatalf("start: %v", err)
	}
	return a
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Driver() == nil {
		t.Fatal("expected non-nil driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableAssessments, tableAnswers, tableResults, tableSequence} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestAssessmentCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	a, err := repo.Create(ctx, "cand-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CandidateID != "cand-1" {
		t.Errorf("candidate = %q, want cand-1", got.CandidateID)
	}
	if got.State != scoring.StateNotStarted {
		t.Errorf("state = %q, want %q", got.State, scoring.StateNotStarted)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, a.CreatedAt)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func TestAssessmentLifecycle(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	a, err := repo.Create(ctx, "cand-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Cannot skip straight to scored.
	if err := repo.SetState(ctx, a.ID, scoring.StateScored); !errors.Is(err, scoring.ErrInvalidTransition) {
		t.Fatalf("set scored: err = %v, want ErrInvalidTransition", err)
	}

	for _, st := range []scoring.AssessmentState{scoring.StateRunning, scoring.StateEndedByScript, scoring.StateScored} {
		if err := repo.SetState(ctx, a.ID, st); err != nil {
			t.Fatalf("set %s: %v", st, err)
		}
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != scoring.StateScored {
		t.Errorf("state = %q, want scored", got.State)
	}

	if err := repo.SetState(ctx, "missing", scoring.StateRunning); !errors.Is(err, ErrNotFound) {
		t.Errorf("set state on missing: err = %v, want ErrNotFound", err)
	}
}

func TestAssessmentAbort(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()
	a := runningAssessment(t, s, "cand-1")

	if err := repo.Abort(ctx, a.ID, scoring.AbortNone); err == nil {
		t.Fatal("expected error for empty abort reason")
	}
	if err := repo.Abort(ctx, a.ID, scoring.AbortTechnical); err != nil {
		t.Fatalf("abort: %v", err)
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != scoring.StateEndedByAbort || got.AbortReason != scoring.AbortTechnical {
		t.Errorf("got state %q reason %q", got.State, got.AbortReason)
	}
}

func TestAppendAnswers(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	idle, err := repo.Create(ctx, "idle")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.AppendAnswer(ctx, idle.ID, "ch1", catalog.ResultCorrect); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("append to not-started: err = %v, want ErrNotRunning", err)
	}

	a := runningAssessment(t, s, "cand-1")
	script := []struct {
		challenge string
		result    catalog.AnswerResult
	}{
		{"ch-mid", catalog.ResultCorrect},
		{"ch-hard", catalog.ResultIncorrect},
		{"ch-easy", catalog.ResultTimedOut},
	}
	for i, step := range script {
		ans, err := repo.AppendAnswer(ctx, a.ID, step.challenge, step.result)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if ans.Position != i {
			t.Errorf("position = %d, want %d", ans.Position, i)
		}
	}

	answers, err := repo.Answers(ctx, a.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(answers) != len(script) {
		t.Fatalf("got %d answers, want %d", len(answers), len(script))
	}
	for i, step := range script {
		if answers[i].ChallengeID != step.challenge || answers[i].Result != step.result || answers[i].Position != i {
			t.Errorf("answer %d = %+v", i, answers[i])
		}
	}
}

func TestListByState(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	running := runningAssessment(t, s, "a")
	ended := runningAssessment(t, s, "b")
	if err := repo.SetState(ctx, ended.ID, scoring.StateEndedByAlgorithm); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := repo.Create(ctx, "c"); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ListByState(ctx, scoring.StateRunning)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != running.ID {
		t.Errorf("running = %+v", got)
	}

	all, err := repo.ListByState(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d assessments, want 3", len(all))
	}
}

func TestResultSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	results := s.Results()
	ctx := context.Background()
	a := runningAssessment(t, s, "cand-1")

	// No result yet.
	res, err := results.Latest(ctx, a.ID)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result when none exist")
	}

	first := &Result{AssessmentID: a.ID, Capacity: 0.1, ErrorRate: 1, Score: 300, Status: scoring.StatusValidated}
	if err := results.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := &Result{
		AssessmentID: a.ID,
		Capacity:     0.4,
		ErrorRate:    0.9,
		Score:        412,
		Status:       scoring.StatusValidated,
		CompetenceMarks: []scoring.CompetenceMark{
			{CompetenceID: "1.1", AreaCode: "1", Level: 3, Score: 24},
		},
	}
	if err := results.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}
	if second.Sequence <= first.Sequence {
		t.Errorf("sequence %d not after %d", second.Sequence, first.Sequence)
	}

	res, err = results.Latest(ctx, a.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if res.ID != second.ID || res.Score != 412 || res.Capacity != 0.4 {
		t.Errorf("latest = %+v", res)
	}
	if len(res.CompetenceMarks) != 1 || res.CompetenceMarks[0] != second.CompetenceMarks[0] {
		t.Errorf("marks = %+v", res.CompetenceMarks)
	}
}

func TestResultSaveRequiresAssessment(t *testing.T) {
	s := openTestStore(t)
	err := s.Results().Save(context.Background(), &Result{AssessmentID: "missing", Status: scoring.StatusValidated})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestResultSummaryUsesLatestResult(t *testing.T) {
	s := openTestStore(t)
	results := s.Results()
	ctx := context.Background()

	a := runningAssessment(t, s, "a")
	b := runningAssessment(t, s, "b")
	saves := []*Result{
		{AssessmentID: a.ID, Score: 100, Status: scoring.StatusRejected},
		{AssessmentID: a.ID, Score: 300, Status: scoring.StatusValidated},
		{AssessmentID: b.ID, Score: 500, Status: scoring.StatusValidated},
	}
	for i, r := range saves {
		if err := results.Save(ctx, r); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	sum, err := results.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 2 {
		t.Errorf("total = %d, want 2", sum.Total)
	}
	if sum.ByStatus[scoring.StatusValidated] != 2 || sum.ByStatus[scoring.StatusRejected] != 0 {
		t.Errorf("by status = %v", sum.ByStatus)
	}
	if sum.AverageScore != 400 {
		t.Errorf("average = %v, want 400", sum.AverageScore)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := runningAssessment(t, s, "a")
	if _, err := s.Assessments().AppendAnswer(ctx, a.ID, "ch1", catalog.ResultCorrect); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	all, err := s.Assessments().ListByState(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d assessments after reset", len(all))
	}
	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq != 1 {
		t.Errorf("sequence after reset = %d, want 1", seq)
	}
}

func TestSequenceIsMonotonicAndSurvivesReseed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 3; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Seeding again must not reset an existing counter.
	again, err := newSequence(ctx, s.Driver())
	if err != nil {
		t.Fatalf("new sequence: %v", err)
	}
	for i := 0; i < 2; i++ {
		seq, err := again.Next(ctx)
		if err != nil {
			t.Fatalf("next after reseed %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestDefaultDBPathHonorsEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "x.db")
	t.Setenv("ADAPTEST_DB", p)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != p {
		t.Errorf("path = %q, want %q", got, p)
	}
}
