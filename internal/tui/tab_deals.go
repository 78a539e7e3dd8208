package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/forecast"
	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/tui/components"
	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dealsChrome is the number of content lines the Deals tab spends on the
// card border, title and column header.
const dealsChrome = 4

// visibleDeals returns the deals shown on the Deals tab, in input order.
func (a App) visibleDeals() []model.Deal {
	var period model.Period
	if a.periodOnly {
		period = a.selectedPeriod(forecast.PeriodOptions(a.now()))
	}
	q := strings.ToLower(a.searchQuery)

	out := make([]model.Deal, 0, len(a.deals))
	for _, d := range a.deals {
		if q != "" && !strings.Contains(strings.ToLower(d.Name), q) {
			continue
		}
		if a.periodOnly && !forecast.Matches(d, period) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (a *App) clampCursor() {
	n := len(a.visibleDeals())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.offset > a.cursor {
		a.offset = a.cursor
	}
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
	a.scrollToCursor()
}

func (a App) listHeight() int {
	// tab bar + period row + status bar
	return max(a.height-3-dealsChrome, 1)
}

// updateDeals handles keys on the Deals tab.
func (a App) updateDeals(key string) (tea.Model, tea.Cmd) {
	visible := a.visibleDeals()

	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g", "home":
		a.cursor = 0
		a.offset = 0
	case "G", "end":
		a.cursor = len(visible) - 1
		a.clampCursor()
	case "ctrl+d", "pgdown":
		a.moveCursor(a.listHeight() / 2)
	case "ctrl+u", "pgup":
		a.moveCursor(-a.listHeight() / 2)
	case "f":
		a.periodOnly = !a.periodOnly
		a.cursor, a.offset = 0, 0
	case "/":
		a.searching = true
		a.searchInput = newSearchInput(a.searchQuery)
		return a, a.searchInput.Focus()
	case "esc":
		if a.searchQuery != "" {
			a.searchQuery = ""
			a.cursor, a.offset = 0, 0
		}
	case "l", "right", "enter", " ":
		return a.choose(visible, func(d model.Disposition) model.Disposition { return d.Next() })
	case "h", "left":
		return a.choose(visible, func(d model.Disposition) model.Disposition { return d.Prev() })
	case "w", "a", "b":
		disp := model.ParseDisposition(map[string]string{"w": "win", "a": "advance", "b": "bin"}[key])
		return a.choose(visible, func(model.Disposition) model.Disposition { return disp })
	}

	a.scrollToCursor()
	return a, nil
}

// choose applies change to the deal under the cursor and remembers it.
func (a App) choose(visible []model.Deal, change func(model.Disposition) model.Disposition) (tea.Model, tea.Cmd) {
	if a.cursor < 0 || a.cursor >= len(visible) {
		return a, nil
	}
	d := visible[a.cursor]
	next := change(a.disposition(d.Key))

	choices := a.choices.Clone()
	choices[d.Key] = next
	a.choices = choices
	a.notice = ""

	return a, saveChoiceCmd(a.opts.Store, d, next)
}

func (a *App) scrollToCursor() {
	h := a.listHeight()
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+h {
		a.offset = a.cursor - h + 1
	}
}

func newSearchInput(value string) textinput.Model {
	t := theme.Active
	ti := textinput.New()
	ti.Placeholder = "deal name"
	ti.Prompt = "/"
	ti.CharLimit = 80
	ti.Width = 30
	ti.SetValue(value)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	ti.TextStyle = lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	return ti
}

// updateSearch handles key events while the search box is focused.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.searchQuery = strings.TrimSpace(a.searchInput.Value())
		a.searching = false
		a.cursor, a.offset = 0, 0
		return a, nil
	case "esc":
		a.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a App) renderDealsTab(rep model.Report, cw, h int) string {
	t := theme.Active

	visible := a.visibleDeals()
	if len(a.deals) == 0 {
		return components.ContentCard("Deals", mutedText("The file has no deals."), cw)
	}
	if len(visible) == 0 {
		return components.ContentCard("Deals", mutedText("No deals match. Press esc to clear the search or f to show all."), cw)
	}

	inner := cw - 4
	valueW, actionW, stageW, dateW, fcW := 10, 15, 20, 10, 12
	nameW := inner - valueW - actionW - stageW - dateW - fcW - 5
	if nameW < 12 {
		stageW = max(stageW-(12-nameW), 6)
		nameW = 12
	}

	inPeriod := make(map[string]model.Row, len(rep.Rows))
	for _, r := range rep.Rows {
		inPeriod[r.Key] = r
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	col := func(s string, w int, right bool) string {
		s = cli.Truncate(s, w)
		if right {
			return fmt.Sprintf("%*s", w, s)
		}
		return fmt.Sprintf("%-*s", w, s)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.Join([]string{
		col("Deal Name", nameW, false),
		col("Deal Value", valueW, true),
		col("Forecast Action", actionW, false),
		col("Current Stage", stageW, false),
		col("Close", dateW, false),
		col("Forecast", fcW, true),
	}, " ")))

	listH := max(h-dealsChrome, 1)
	end := min(a.offset+listH, len(visible))
	for i := a.offset; i < end; i++ {
		d := visible[i]
		disp := a.disposition(d.Key)
		row, ok := inPeriod[d.Key]

		style := rowStyle
		if !ok {
			style = dimStyle
		}
		if i == a.cursor {
			style = selStyle
		}
		actionStyle := style.Foreground(t.Disposition(disp)).Bold(true)

		fc := "—"
		if ok {
			fc = cli.FormatMoneyCents(row.ForecastValue)
		}
		stage := d.StageLabel
		if stage == "" {
			stage = "—"
		}

		b.WriteString("\n")
		b.WriteString(style.Render(col(d.Name, nameW, false) + " " + col(cli.FormatMoney(d.Value), valueW, true) + " "))
		b.WriteString(actionStyle.Render(col("◂ "+disp.String()+" ▸", actionW, false)))
		b.WriteString(style.Render(" " + col(stage, stageW, false) + " " + col(cli.FormatDate(d.CloseDate), dateW, false) + " " + col(fc, fcW, true)))
	}

	title := fmt.Sprintf("Deals  %d/%d", len(visible), len(a.deals))
	if len(visible) > listH {
		title += fmt.Sprintf("  rows %d-%d", a.offset+1, end)
	}
	return components.ContentCard(title, b.String(), cw)
}

func mutedText(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(s)
}
