package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/forecast"
	"github.com/theirongolddev/dealcast/internal/model"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagReportFormat string

var reportCmd = &cobra.Command{
	Use:   "report FILE",
	Short: "Print the forecast table and comparison for a period",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&flagReportFormat, "format", "table", "Output format: table, json or yaml")
	rootCmd.AddCommand(reportCmd)
}

// evaluate loads path and computes the report for the selected period.
func evaluate(path string) (model.Report, error) {
	def, err := defaultDisposition()
	if err != nil {
		return model.Report{}, err
	}
	now := time.Now()
	period, err := selectedPeriod(now)
	if err != nil {
		return model.Report{}, err
	}

	ds, err := loadDeals(path)
	if err != nil {
		return model.Report{}, err
	}
	defer ds.Close()

	return forecast.Evaluate(ds.Deals(), ds.Choices, period, forecast.Options{
		Now:                func() time.Time { return now },
		DefaultDisposition: def,
	}), nil
}

func runReport(_ *cobra.Command, args []string) error {
	switch flagReportFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid --format %q (want table, json or yaml)", flagReportFormat)
	}

	rep, err := evaluate(args[0])
	if err != nil {
		return err
	}

	switch flagReportFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cli.NewDocument(rep))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cli.NewDocument(rep)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}

	fmt.Println()
	fmt.Print(cli.RenderReport(rep))
	return nil
}
