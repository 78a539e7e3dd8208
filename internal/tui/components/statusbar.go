package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports about the loaded file.
type Status struct {
	File       string
	Period     string
	InPeriod   int
	Deals      int
	Remembered int
	Message    string // transient notice, e.g. a failed save
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	notice := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" ") + key.Render("?") + base.Render(" help  ") +
		key.Render("q") + base.Render(" quit")
	if s.Message != "" {
		left += base.Render("  ") + notice.Render(s.Message)
	}

	var info []string
	if s.Period != "" {
		info = append(info, s.Period)
	}
	info = append(info, fmt.Sprintf("%d/%d deals", s.InPeriod, s.Deals))
	if s.Remembered > 0 {
		info = append(info, fmt.Sprintf("%d remembered", s.Remembered))
	}
	if s.File != "" {
		info = append(info, s.File)
	}
	right := base.Render(strings.Join(info, " · ") + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(left)
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
