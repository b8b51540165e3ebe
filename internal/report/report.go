// Package report renders simulations, scores and store summaries for the
// terminal.
package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/scoring"
	"github.com/abhisek/adaptest/internal/simulator"
	"github.com/abhisek/adaptest/internal/smartrandom"
	"github.com/abhisek/adaptest/internal/store"
)

// Width is the width of bars and cards.
const Width = 60

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func field(label string, value any) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(fmt.Sprint(value))
}

func resultStyle(r catalog.AnswerResult) lipgloss.Style {
	switch r {
	case catalog.ResultCorrect:
		return correctStyle
	case catalog.ResultIncorrect:
		return incorrectStyle
	default:
		return skippedStyle
	}
}

func statusStyle(s scoring.Status) lipgloss.Style {
	if s == scoring.StatusRejected {
		return incorrectStyle
	}
	return correctStyle
}

// RenderTrace renders one row per simulated answer and the final estimate.
func RenderTrace(res simulator.Result) string {
	t := newTable("#", "challenge", "difficulty", "reward", "answer", "capacity", "error")
	for _, step := range res.Trace {
		t.Row(
			strconv.Itoa(step.Index+1),
			step.Challenge.ID(),
			fmt.Sprintf("%.2f", step.Challenge.Difficulty()),
			fmt.Sprintf("%.4f", step.Reward),
			resultStyle(step.Result).Render(string(step.Result)),
			fmt.Sprintf("%.4f", step.Estimate.Capacity),
			fmt.Sprintf("%.4f", step.Estimate.ErrorRate),
		)
	}

	summary := strings.Join([]string{
		field("answers", len(res.Answers)),
		field("capacity", fmt.Sprintf("%.4f", res.Estimate.Capacity)),
		field("error rate", fmt.Sprintf("%.4f", res.Estimate.ErrorRate)),
		field("ended", res.EndReason),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Simulation"),
		t.String(),
		summary,
	)
}

// RenderScore renders a score with its competence marks.
func RenderScore(res scoring.Result, maxScore int) string {
	lines := []string{
		titleStyle.Render("Score"),
		field("status", statusStyle(res.Status).Render(string(res.Status))),
		field("capacity", fmt.Sprintf("%.4f", res.Capacity)),
		Bar{Label: "score", Value: float64(res.Score), Max: float64(maxScore), Width: Width}.View(),
	}
	if len(res.CompetenceMarks) > 0 {
		t := newTable("competence", "area", "level", "score")
		for _, m := range res.CompetenceMarks {
			t.Row(m.CompetenceID, m.AreaCode, strconv.Itoa(m.Level), strconv.Itoa(m.Score))
		}
		lines = append(lines, t.String())
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderPlacement renders a smart-random pick.
func RenderPlacement(res smartrandom.Result) string {
	lines := []string{
		titleStyle.Render("Placement"),
		field("estimated level", fmt.Sprintf("%g", res.EstimatedLevel)),
	}
	if res.HasEnded {
		lines = append(lines, hintStyle.Render("No challenge left to propose."))
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	skills := make([]string, len(res.PossibleSkills))
	for i, s := range res.PossibleSkills {
		skills[i] = s.ID
	}
	lines = append(lines,
		field("next challenge", res.Challenge.ID()),
		field("skills", strings.Join(res.Challenge.SkillIDs(), ", ")),
		labelStyle.Render("drawn from: ")+strings.Join(skills, ", "),
	)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderSummary renders the aggregate of stored results.
func RenderSummary(sum store.ResultSummary) string {
	if sum.Total == 0 {
		return hintStyle.Render("No scored assessments yet.")
	}
	statuses := make([]string, 0, len(sum.ByStatus))
	for s := range sum.ByStatus {
		statuses = append(statuses, string(s))
	}
	slices.Sort(statuses)

	t := newTable("status", "assessments")
	for _, s := range statuses {
		st := scoring.Status(s)
		t.Row(statusStyle(st).Render(s), strconv.Itoa(sum.ByStatus[st]))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Results"),
		field("assessments", sum.Total),
		field("average score", fmt.Sprintf("%.1f", sum.AverageScore)),
		t.String(),
	)
}

// RenderCatalogStats renders catalog counts.
func RenderCatalogStats(st catalog.Stats) string {
	t := newTable("item", "count")
	t.Row("competences", strconv.Itoa(st.Competences))
	t.Row("tubes", strconv.Itoa(st.Tubes))
	t.Row("skills", strconv.Itoa(st.Skills))
	t.Row("challenges", strconv.Itoa(st.Challenges))
	t.Row("selectable", strconv.Itoa(st.Selectable))
	t.Row("calibrated", strconv.Itoa(st.Calibrated))
	t.Row("timed", strconv.Itoa(st.Timed))

	statuses := make([]string, 0, len(st.ByStatus))
	for s := range st.ByStatus {
		statuses = append(statuses, string(s))
	}
	slices.Sort(statuses)
	for _, s := range statuses {
		t.Row("  "+s, strconv.Itoa(st.ByStatus[catalog.Status(s)]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Catalog"), t.String())
}
