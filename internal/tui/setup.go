package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/dealcast/internal/config"
	"github.com/theirongolddev/dealcast/internal/forecast"
	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues are bound to the setup form fields.
type SetupValues struct {
	DefaultAction string
	DefaultPeriod string
	Theme         string
}

// NewSetupValues seeds the form from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		DefaultAction: cfg.General.DefaultAction,
		DefaultPeriod: cfg.General.DefaultPeriod,
		Theme:         cfg.Appearance.Theme,
	}
}

// firstRunValues seeds the form from the running session.
func firstRunValues(def model.Disposition, period model.Period) *SetupValues {
	v := &SetupValues{
		DefaultAction: strings.ToLower(def.String()),
		Theme:         theme.Active.Name,
	}
	if !period.IsZero() {
		v.DefaultPeriod = strings.TrimPrefix(period.String(), fmt.Sprint(period.Year))
	}
	return v
}

// Apply writes the form values into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.General.DefaultAction = v.DefaultAction
	cfg.General.DefaultPeriod = v.DefaultPeriod
	cfg.Appearance.Theme = v.Theme
}

// NewSetupForm builds the configuration form shared by the dashboard's
// first run and `dealcast setup`.
func NewSetupForm(vals *SetupValues, dealCount int) *huh.Form {
	intro := "Pick the defaults dealcast starts with. Run `dealcast setup` to change them later."
	if dealCount > 0 {
		intro = fmt.Sprintf("Loaded %d deals. ", dealCount) + intro
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to dealcast").
				Description(intro),

			huh.NewSelect[string]().
				Title("Default forecast action").
				Description("Applied to deals you have not picked an action for.").
				Options(
					huh.NewOption("Win (count full value)", "win"),
					huh.NewOption("Advance (weight by stage)", "advance"),
					huh.NewOption("Bin (exclude)", "bin"),
				).
				Value(&vals.DefaultAction),

			huh.NewSelect[string]().
				Title("Default period").
				Options(
					huh.NewOption("First offered (Q2)", ""),
					huh.NewOption("Q2", "Q2"),
					huh.NewOption("Q3", "Q3"),
					huh.NewOption("Q4", "Q4"),
					huh.NewOption("Full year", "FY"),
				).
				Value(&vals.DefaultPeriod),

			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

// applySetup persists the form and applies it to the running dashboard.
func (a *App) applySetup() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	a.setupVals.Apply(&cfg)

	theme.SetActive(a.setupVals.Theme)
	if d := model.ParseDisposition(a.setupVals.DefaultAction); d.Valid() {
		a.defaultDisp = d
	}
	if p, err := forecast.SelectPeriod(a.setupVals.DefaultPeriod, a.now()); err == nil {
		a.period = p
	}

	return config.Save(cfg)
}
