package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/forecast"

	"github.com/spf13/cobra"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the selectable forecast periods for the current year",
	Args:  cobra.NoArgs,
	RunE:  runPeriods,
}

func init() {
	rootCmd.AddCommand(periodsCmd)
}

func runPeriods(_ *cobra.Command, _ []string) error {
	now := time.Now()
	selected, err := selectedPeriod(now)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, 4)
	for _, p := range forecast.PeriodOptions(now) {
		covers := fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
		if p.IsFiscalYear() {
			covers = fmt.Sprintf("Q1-Q4 %d", p.Year)
		}
		mark := ""
		if p == selected {
			mark = "*"
		}
		rows = append(rows, []string{p.String(), covers, mark})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "PERIODS",
		Headers: []string{"Token", "Covers", "Default"},
		Right:   []bool{false, false, false},
		Rows:    rows,
	}))
	return nil
}
