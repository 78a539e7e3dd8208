// Package tui provides the interactive Bubble Tea dashboard for dealcast.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/dealcast/internal/forecast"
	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/source"
	"github.com/theirongolddev/dealcast/internal/tui/components"
	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ChoiceStore remembers dispositions across runs.
type ChoiceStore interface {
	forecast.ChoiceStore
	SaveChoice(d model.Deal, disp model.Disposition) error
}

// fileRecorder is implemented by stores that keep a recent-files list.
type fileRecorder interface {
	RecordFile(path string, dealCount int) error
}

// Options configures a dashboard session.
type Options struct {
	Path  string
	Sheet string

	// Period is the initial selection. Zero selects the first option.
	Period             model.Period
	DefaultDisposition model.Disposition
	// Overrides are applied on top of remembered choices after each load.
	Overrides model.Choices

	Store     ChoiceStore // nil disables remembering
	Logger    *slog.Logger
	Now       func() time.Time
	NeedSetup bool
}

// DataLoadedMsg is sent when the deal file has been read.
type DataLoadedMsg struct {
	Result   *forecast.LoadResult
	Err      error
	LoadTime time.Duration
}

// choiceSavedMsg reports the outcome of remembering one disposition.
type choiceSavedMsg struct {
	Err error
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	result  *forecast.LoadResult
	deals   []model.Deal
	choices model.Choices
	loaded  bool
	loadErr error
	notice  string

	// Forecast selection
	period      model.Period
	defaultDisp model.Disposition
	periodOnly  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int
	offset    int

	// Search
	searching   bool
	searchInput textinput.Model
	searchQuery string

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	tabDeals = 0
	tabChart = 1
)

// NewApp builds the dashboard for opts.Path. Loading starts in Init.
func NewApp(opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	def := opts.DefaultDisposition
	if !def.Valid() {
		def = model.DispositionWin
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:        opts,
		choices:     make(model.Choices),
		period:      opts.Period,
		defaultDisp: def,
		needSetup:   opts.NeedSetup,
		spinner:     sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Path, a.opts.Sheet, a.opts.Store, a.opts.Logger),
		a.spinner.Tick,
	)
}

// now reads the clock on every call so period options follow the calendar.
func (a App) now() time.Time {
	return a.opts.Now()
}

// selectedPeriod returns the current selection, falling back to the first
// option when the selection is no longer offered (e.g. after New Year).
func (a App) selectedPeriod(options []model.Period) model.Period {
	for _, o := range options {
		if o == a.period {
			return o
		}
	}
	return options[0]
}

func (a App) report() model.Report {
	options := forecast.PeriodOptions(a.now())
	return forecast.Evaluate(a.deals, a.choices, a.selectedPeriod(options), forecast.Options{
		Now:                a.now,
		DefaultDisposition: a.defaultDisp,
	})
}

// disposition returns the effective choice for a deal.
func (a App) disposition(key string) model.Disposition {
	if d, ok := a.choices[key]; ok && d.Valid() {
		return d
	}
	return a.defaultDisp
}

func (a *App) shiftPeriod(delta int) {
	options := forecast.PeriodOptions(a.now())
	cur := a.selectedPeriod(options)
	idx := 0
	for i, o := range options {
		if o == cur {
			idx = i
		}
	}
	idx = (idx + delta + len(options)) % len(options)
	a.period = options[idx]
	a.clampCursor()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabDeals {
				a.moveCursor(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabDeals {
				a.moveCursor(1)
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := components.TabAtX(a.activeTab, msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			if key == "q" {
				return a, tea.Quit
			}
			return a, nil
		}

		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.searching {
			return a.updateSearch(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			a.loaded = false
			return a, tea.Batch(
				loadDataCmd(a.opts.Path, a.opts.Sheet, a.opts.Store, a.opts.Logger),
				a.spinner.Tick,
			)
		case "tab", "]":
			a.shiftPeriod(1)
			return a, nil
		case "shift+tab", "[":
			a.shiftPeriod(-1)
			return a, nil
		case "1", "2":
			a.activeTab = int(key[0] - '1')
			return a, nil
		}

		if len(key) == 1 {
			if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
				a.activeTab = tab
				return a, nil
			}
		}

		if a.activeTab == tabDeals && a.loadErr == nil {
			return a.updateDeals(key)
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		if msg.Err != nil {
			a.opts.Logger.Debug("load failed", "path", a.opts.Path, "error", msg.Err)
			a.result = nil
			a.deals = nil
			return a, a.maybeStartSetup()
		}
		a.result = msg.Result
		a.deals = msg.Result.Deals()
		a.opts.Logger.Debug("dashboard loaded", "deals", len(a.deals), "elapsed", msg.LoadTime)
		a.choices = msg.Result.Choices.Clone()
		for k, v := range a.opts.Overrides {
			if v.Valid() {
				a.choices[k] = v
			}
		}
		a.notice = ""
		a.clampCursor()
		return a, a.maybeStartSetup()

	case choiceSavedMsg:
		if msg.Err != nil {
			a.opts.Logger.Warn("remembering disposition", "error", msg.Err)
			a.notice = "could not remember choice"
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) maybeStartSetup() tea.Cmd {
	if !a.needSetup || a.setupForm != nil {
		return nil
	}
	a.setupVals = firstRunValues(a.defaultDisp, a.period)
	a.setupForm = NewSetupForm(a.setupVals, len(a.deals))
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.applySetup(); err != nil {
			a.opts.Logger.Warn("saving config", "error", err)
			a.notice = "settings not saved"
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  dealcast needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ dealcast"))
	b.WriteString(subtitleStyle.Render(" · Pipeline Forecast"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Reading " + filepath.Base(a.opts.Path) + "..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"d c", "Deals / Chart tab"},
			{"j k", "Move between deals"},
			{"g G", "First / last deal"},
			{"tab [ ]", "Next / previous period"},
		}},
		{"Forecast", []struct{ key, desc string }{
			{"h l ← →", "Cycle action"},
			{"w a b", "Win / Advance / Bin"},
			{"f", "Only deals in period"},
			{"/", "Search deals"},
			{"r", "Reload file"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	rep := a.report()

	header := components.RenderTabBar(a.activeTab, w, "◈ dealcast")
	header += "\n" + a.renderPeriodPills(rep, w)

	status := components.Status{
		File:     filepath.Base(a.opts.Path),
		Period:   rep.Period.String(),
		InPeriod: rep.Totals.InPeriod,
		Deals:    rep.Totals.Deals,
		Message:  a.notice,
	}
	if a.result != nil {
		status.Remembered = a.result.Remembered
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil:
		content = a.renderLoadError(cw)
	case a.activeTab == tabChart:
		content = a.renderChartTab(rep, cw)
	default:
		content = a.renderDealsTab(rep, cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderPeriodPills draws the period selector with the active option highlighted.
func (a App) renderPeriodPills(rep model.Report, w int) string {
	t := theme.Active
	base := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	active := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)
	idle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	line := base.Render(" Period ")
	for _, p := range rep.Options {
		label := " " + p.String() + " "
		if p == rep.Period {
			line += active.Render(label)
		} else {
			line += idle.Render(label)
		}
		line += base.Render(" ")
	}
	if a.searchQuery != "" || a.searching {
		line += base.Render("│ ") + idle.Render("search: ")
		if a.searching {
			line += a.searchInput.View()
		} else {
			line += lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(a.searchQuery)
		}
	}
	if a.periodOnly {
		line += base.Render(" │ ") + idle.Render("in period only")
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).MaxWidth(w).Render(line)
}

func (a App) renderLoadError(cw int) string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	msg := a.loadErr.Error()
	var schemaErr *source.SchemaError
	if errors.As(a.loadErr, &schemaErr) {
		msg = schemaErr.Error()
	}
	body := errStyle.Render(msg) + "\n\n" +
		hintStyle.Render("Fix "+filepath.Base(a.opts.Path)+" and press r to reload, or q to quit.")
	return components.ContentCard("Could not load deals", body, cw)
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd reads the deal file off the UI goroutine.
func loadDataCmd(path, sheet string, store ChoiceStore, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		var cs forecast.ChoiceStore
		if store != nil {
			cs = store
		}
		res, err := forecast.Load(path, sheet, cs, logger)
		if err == nil {
			if rec, ok := store.(fileRecorder); ok {
				if rerr := rec.RecordFile(path, len(res.Deals())); rerr != nil {
					logger.Warn("recording recent file", "error", rerr)
				}
			}
		}
		return DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

// saveChoiceCmd remembers one disposition in the background.
func saveChoiceCmd(store ChoiceStore, d model.Deal, disp model.Disposition) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return choiceSavedMsg{Err: store.SaveChoice(d, disp)}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
