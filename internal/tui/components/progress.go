package components

import (
	"fmt"

	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForRatio grades how much of the baseline the forecast retains.
func ColorForRatio(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 0.75:
		return t.Green
	case pct >= 0.5:
		return t.Yellow
	case pct >= 0.25:
		return t.Orange
	default:
		return t.Red
	}
}

// RatioBar renders a labeled bar for forecast/baseline with its percentage.
func RatioBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	pct = min(max(pct, 0), 1)
	color := ColorForRatio(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space.Render(" ") +
		bar.ViewAs(pct) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
