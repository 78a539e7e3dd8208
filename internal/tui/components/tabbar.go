package components

import (
	"strings"

	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one entry in the tab bar.
type Tab struct {
	Name string
	Key  rune // shortcut; always the lowercased first letter of Name
}

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{
	{Name: "Deals", Key: 'd'},
	{Name: "Chart", Key: 'c'},
}

// tabLabel is the unstyled text drawn for a tab. Inactive tabs show their
// shortcut in brackets.
func tabLabel(tab Tab, active bool) string {
	if active {
		return " " + tab.Name + " "
	}
	return " [" + tab.Name[:1] + "]" + tab.Name[1:] + " "
}

// TabVisualWidth is the rendered width of a tab, used for mouse hit testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active))
}

// RenderTabBar renders the tab bar on a single row with a right-aligned title.
func RenderTabBar(activeIdx, width int, title string) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	sepStyle := lipgloss.NewStyle().
		Foreground(t.Border).
		Background(t.Surface)
	titleStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tabLabel(tab, true))
		} else {
			parts[i] = inactiveStyle.Render(tabLabel(tab, false))
		}
	}
	left := strings.Join(parts, sepStyle.Render("│"))
	right := titleStyle.Render(title + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(left)
	}
	return left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap)) + right
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabAtX returns the tab under column x, or -1. Hitboxes follow the same
// widths RenderTabBar draws, with a one-column separator between tabs.
func TabAtX(activeIdx, x int) int {
	pos := 0
	for i, tab := range Tabs {
		w := TabVisualWidth(tab, i == activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}
