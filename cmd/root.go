// Package cmd implements the dealcast CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/dealcast/internal/config"
	"github.com/theirongolddev/dealcast/internal/forecast"
	"github.com/theirongolddev/dealcast/internal/logging"
	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagPeriod        string
	flagDefaultAction string
	flagSet           []string
	flagNoCache       bool
	flagQuiet         bool
	flagLogLevel      string
	flagSheet         string
)

// cfg and logger are set up before any command runs.
var (
	cfg    config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "dealcast [FILE]",
	Short: "Pipeline forecast from a deals spreadsheet",
	Long: "Read a CSV or XLSX export of sales deals, assign each deal a forecast action\n" +
		"(win, advance or bin), and compare the forecast for a period against the total pipeline.",
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runReport(cmd, args)
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagPeriod, "period", "p", "", "Period to forecast, e.g. Q3, FY or 2026Q4 (default: config or first option)")
	pf.StringVar(&flagDefaultAction, "default-action", "", "Action for deals without a choice: win, advance or bin")
	pf.StringArrayVarP(&flagSet, "set", "s", nil, `Set a deal's action, "KEY=action" or "Deal Name=action" (repeatable)`)
	pf.BoolVar(&flagNoCache, "no-cache", false, "Neither recall nor remember deal actions")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flagSheet, "sheet", "", "Worksheet to read from XLSX files (default: first sheet)")

	rootCmd.Flags().StringVar(&flagReportFormat, "format", "table", "Output format: table, json or yaml")
}

// setup loads configuration and builds the stderr logger.
func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	levelName := cfg.General.LogLevel
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logger = logging.New(os.Stderr, level, logging.FormatText)
	slog.SetDefault(logger)
	return nil
}

// defaultDisposition resolves --default-action against the config.
func defaultDisposition() (model.Disposition, error) {
	name := cfg.General.DefaultAction
	if flagDefaultAction != "" {
		name = flagDefaultAction
	}
	if name == "" {
		return model.DispositionWin, nil
	}
	d := model.ParseDisposition(name)
	if !d.Valid() {
		return d, fmt.Errorf("invalid default action %q (want win, advance or bin)", name)
	}
	return d, nil
}

// selectedPeriod resolves --period, then the configured default, against now.
func selectedPeriod(now time.Time) (model.Period, error) {
	token := cfg.General.DefaultPeriod
	if flagPeriod != "" {
		token = flagPeriod
	}
	return forecast.SelectPeriod(token, now)
}

func sheet() string {
	if flagSheet != "" {
		return flagSheet
	}
	return cfg.General.Sheet
}

// openStore opens the choice memory. A failure is reported and the command
// continues without it.
func openStore() *store.Store {
	if flagNoCache {
		return nil
	}
	st, err := store.Open(config.CachePath())
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Choice memory unavailable: %v\n", err)
		}
		logger.Warn("opening choice store", "error", err)
		return nil
	}
	return st
}

// dealSet is a loaded file with every choice applied: remembered, then --set.
type dealSet struct {
	*forecast.LoadResult
	store *store.Store
}

func (d *dealSet) Close() {
	if d.store != nil {
		_ = d.store.Close()
	}
}

// loadDeals is the shared loading path used by all file commands.
// Remembered choices are recalled unless --no-cache; --set choices are
// applied on top and remembered.
func loadDeals(path string) (*dealSet, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", path)
	}

	st := openStore()
	ds := &dealSet{store: st}

	var cs forecast.ChoiceStore
	if st != nil {
		cs = st
	}
	res, err := forecast.Load(path, sheet(), cs, logger)
	if err != nil {
		ds.Close()
		return nil, err
	}
	ds.LoadResult = res

	overrides, err := parseSetFlags(flagSet, res.Deals())
	if err != nil {
		ds.Close()
		return nil, err
	}
	for k, v := range overrides {
		res.Choices[k] = v
	}

	if st != nil {
		if len(overrides) > 0 {
			if err := st.SaveChoices(res.Deals(), overrides); err != nil {
				logger.Warn("remembering --set actions", "error", err)
			}
		}
		if err := st.RecordFile(path, len(res.Deals())); err != nil {
			logger.Warn("recording recent file", "error", err)
		}
	}

	if !flagQuiet {
		src := res.Source
		fmt.Fprintf(os.Stderr, "  Loaded %d deals", len(src.Deals))
		if res.Remembered > 0 {
			fmt.Fprintf(os.Stderr, " (%d remembered actions)", res.Remembered)
		}
		fmt.Fprintln(os.Stderr)
		if n := src.BadValues + src.BadDates + src.UnknownStages; n > 0 {
			fmt.Fprintf(os.Stderr, "  Note: %d unreadable values, %d unreadable dates, %d unknown stages\n",
				src.BadValues, src.BadDates, src.UnknownStages)
		}
	}

	return ds, nil
}

// parseSetFlags resolves "KEY=action" or "Deal Name=action" entries against
// deals. Keys match exactly; names match case-insensitively and must be unique.
func parseSetFlags(entries []string, deals []model.Deal) (model.Choices, error) {
	out := make(model.Choices, len(entries))
	for _, e := range entries {
		i := strings.LastIndex(e, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid --set %q: want \"KEY=action\"", e)
		}
		ref, action := strings.TrimSpace(e[:i]), e[i+1:]

		disp := model.ParseDisposition(action)
		if !disp.Valid() {
			return nil, fmt.Errorf("invalid --set %q: unknown action %q (want win, advance or bin)", e, action)
		}

		key, err := resolveDeal(ref, deals)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", e, err)
		}
		out[key] = disp
	}
	return out, nil
}

var errNoSuchDeal = errors.New("no deal with that key or name")

func resolveDeal(ref string, deals []model.Deal) (string, error) {
	for _, d := range deals {
		if d.Key == ref {
			return d.Key, nil
		}
	}

	var matches []string
	for _, d := range deals {
		if strings.EqualFold(strings.TrimSpace(d.Name), ref) {
			matches = append(matches, d.Key)
		}
	}
	switch len(matches) {
	case 0:
		return "", errNoSuchDeal
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%d deals are named %q; use one of keys %s", len(matches), ref, strings.Join(matches, ", "))
	}
}
