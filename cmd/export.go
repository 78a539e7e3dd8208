package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/dealcast/internal/chart"
	"github.com/theirongolddev/dealcast/internal/export"
	"github.com/theirongolddev/dealcast/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagExportHTML string
	flagExportXLSX string
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the forecast as an HTML chart and/or an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportHTML, "html", "", "Write the comparison chart to this HTML file")
	exportCmd.Flags().StringVar(&flagExportXLSX, "xlsx", "", "Write the deal table and totals to this XLSX file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	if flagExportHTML == "" && flagExportXLSX == "" {
		return errors.New("nothing to export: pass --html and/or --xlsx")
	}

	rep, err := evaluate(args[0])
	if err != nil {
		return err
	}

	if flagExportHTML != "" {
		if err := writeExport(flagExportHTML, rep, chart.Render); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Wrote %s\n", flagExportHTML)
		}
	}
	if flagExportXLSX != "" {
		if err := writeExport(flagExportXLSX, rep, export.WriteXLSX); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Wrote %s\n", flagExportXLSX)
		}
	}
	return nil
}

func writeExport(path string, rep model.Report, write func(io.Writer, model.Report) error) error {
	f, err := os.Create(path) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return err
	}
	if err := write(f, rep); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
