package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/forecast"

	"github.com/spf13/cobra"
)

var dealsCmd = &cobra.Command{
	Use:   "deals FILE",
	Short: "List every deal with its key and current action",
	Long: "List every deal in FILE regardless of period, with the key accepted by --set\n" +
		"and the action that applies to it (remembered, --set or the default).",
	Args: cobra.ExactArgs(1),
	RunE: runDeals,
}

func init() {
	rootCmd.AddCommand(dealsCmd)
}

func runDeals(_ *cobra.Command, args []string) error {
	def, err := defaultDisposition()
	if err != nil {
		return err
	}
	now := time.Now()
	period, err := selectedPeriod(now)
	if err != nil {
		return err
	}

	ds, err := loadDeals(args[0])
	if err != nil {
		return err
	}
	defer ds.Close()

	deals := ds.Deals()
	if len(deals) == 0 {
		fmt.Println("\n  No deals found.")
		return nil
	}

	rows := make([][]string, 0, len(deals))
	for _, r := range forecast.Rows(deals, ds.Choices, def) {
		in := ""
		if forecast.Matches(r.Deal, period) {
			in = period.String()
		}
		rows = append(rows, []string{
			r.Key,
			cli.Truncate(r.Name, 28),
			cli.FormatMoney(r.Value),
			r.Disposition.String(),
			cli.Truncate(r.StageLabel, 24),
			cli.FormatDate(r.CloseDate),
			in,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("DEALS  %d in file", len(deals)),
		Headers: []string{"Key", "Deal Name", "Deal Value", "Action", "Current Stage", "Close", "Period"},
		Rows:    rows,
		Right:   []bool{false, false, true, false, false, false, false},
	}))
	return nil
}
