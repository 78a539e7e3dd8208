package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/dealcast/internal/config"
	"github.com/theirongolddev/dealcast/internal/store"
	"github.com/theirongolddev/dealcast/internal/tui"
	"github.com/theirongolddev/dealcast/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [FILE]",
	Short: "Launch the interactive forecast dashboard",
	Long:  "Launch the interactive dashboard for FILE, or for the most recently opened file.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	def, err := defaultDisposition()
	if err != nil {
		return err
	}
	period, err := selectedPeriod(time.Now())
	if err != nil {
		return err
	}

	st := openStore()
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		path, err = mostRecentFile(st)
		if err != nil {
			return err
		}
	}

	// Honour NO_COLOR and 16-color terminals instead of forcing TrueColor.
	theme.Detect(cfg.Appearance.Theme)
	lipgloss.SetColorProfile(termenv.EnvColorProfile())

	opts := tui.Options{
		Path:               path,
		Sheet:              sheet(),
		Period:             period,
		DefaultDisposition: def,
		Logger:             logger,
		NeedSetup:          !config.Exists(),
	}
	if st != nil {
		opts.Store = st
	}
	if len(flagSet) > 0 {
		// --set needs the deal list; resolve it against a one-off read.
		ds, err := loadDeals(path)
		if err != nil {
			return err
		}
		opts.Overrides = ds.Choices
		ds.Close()
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

var errNoRecentFile = errors.New("no FILE given and no recently opened file; run `dealcast tui deals.csv`")

func mostRecentFile(st *store.Store) (string, error) {
	if st == nil {
		return "", errNoRecentFile
	}
	files, err := st.RecentFiles(1)
	if err != nil || len(files) == 0 {
		return "", errNoRecentFile
	}
	return files[0].Path, nil
}
