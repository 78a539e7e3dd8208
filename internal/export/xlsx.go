// Package export writes forecast reports to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/model"
)

// Sheet names in the exported workbook.
const (
	ForecastSheet = "Forecast"
	SummarySheet  = "Summary"
)

const (
	numFmtMoney = 4 // #,##0.00
	dateFormat  = "yyyy-mm-dd"
)

// WriteXLSX writes the report as a two-sheet workbook: the filtered deal
// table and a summary of the compared totals.
func WriteXLSX(w io.Writer, rep model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ForecastSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}
	if err := writeDeals(f, styles, rep); err != nil {
		return err
	}
	if err := writeSummary(f, styles, rep); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

type styleSet struct {
	header int
	money  int
	date   int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E6E4D9"}},
	}); err != nil {
		return s, fmt.Errorf("creating header style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: numFmtMoney}); err != nil {
		return s, fmt.Errorf("creating money style: %w", err)
	}
	format := dateFormat
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
		return s, fmt.Errorf("creating date style: %w", err)
	}
	return s, nil
}

func writeDeals(f *excelize.File, st styleSet, rep model.Report) error {
	header := make([]any, len(cli.DealHeaders))
	for i, h := range cli.DealHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ForecastSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rep.Rows {
		var closeDate any
		if r.HasCloseDate() {
			closeDate = r.CloseDate
		}
		row := []any{
			r.Name,
			r.Value.InexactFloat64(),
			r.Disposition.String(),
			r.StageLabel,
			closeDate,
			r.ForecastValue.Round(2).InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ForecastSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	last := len(rep.Rows) + 1
	if err := f.SetCellStyle(ForecastSheet, "A1", "F1", st.header); err != nil {
		return err
	}
	if last > 1 {
		for _, span := range []struct {
			from, to string
			style    int
		}{
			{"B2", fmt.Sprintf("B%d", last), st.money},
			{"E2", fmt.Sprintf("E%d", last), st.date},
			{"F2", fmt.Sprintf("F%d", last), st.money},
		} {
			if err := f.SetCellStyle(ForecastSheet, span.from, span.to, span.style); err != nil {
				return err
			}
		}
	}

	for col, width := range map[string]float64{"A": 32, "B": 14, "C": 16, "D": 36, "E": 20, "F": 16} {
		if err := f.SetColWidth(ForecastSheet, col, col, width); err != nil {
			return err
		}
	}
	return f.AutoFilter(ForecastSheet, fmt.Sprintf("A1:F%d", last), nil)
}

func writeSummary(f *excelize.File, st styleSet, rep model.Report) error {
	rows := [][]any{
		{"Period", rep.Period.String()},
		{cli.BaselineLabel, rep.Totals.Baseline.Round(2).InexactFloat64()},
		{cli.ForecastLabel, rep.Totals.Forecast.Round(2).InexactFloat64()},
		{"Deals", rep.Totals.Deals},
		{"Deals in period", rep.Totals.InPeriod},
		{"Deals without close date", rep.Totals.Undated},
		{"Generated", time.Now().UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), st.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "B2", "B3", st.money); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 28)
}
