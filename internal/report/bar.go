package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Bar is a horizontal gauge of Value over Max.
type Bar struct {
	Label string
	Value float64
	Max   float64
	Width int
}

// Fraction returns Value/Max clamped to [0, 1].
func (b Bar) Fraction() float64 {
	if b.Max <= 0 {
		return 0
	}
	return min(max(b.Value/b.Max, 0), 1)
}

// View renders the bar followed by "value/max".
func (b Bar) View() string {
	var out string
	if b.Label != "" {
		out += labelStyle.Render(b.Label) + "  "
	}

	suffix := fmt.Sprintf("  %g/%g", b.Value, b.Max)
	barWidth := b.Width - lipgloss.Width(out) - len(suffix)
	if barWidth < 4 {
		barWidth = 4
	}
	filled := int(float64(barWidth) * b.Fraction())

	out += lipgloss.NewStyle().Background(Secondary).Render(strings.Repeat(" ", filled))
	out += lipgloss.NewStyle().Background(Border).Render(strings.Repeat(" ", barWidth-filled))
	out += labelStyle.Render(suffix)
	return out
}
