package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/dealcast/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	rep := model.Report{
		Period: model.Period{Year: 2025, Quarter: 3},
		Rows: []model.Row{
			{
				Deal: model.Deal{
					Name:       "Acme",
					Value:      decimal.NewFromInt(10000),
					StageLabel: model.StageDeepDive.Label(),
					Stage:      model.StageDeepDive,
					CloseDate:  time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
				},
				Disposition:   model.DispositionAdvance,
				ForecastValue: decimal.RequireFromString("6100.00"),
			},
		},
		Totals: model.Totals{
			Baseline: decimal.NewFromInt(15000),
			Forecast: decimal.RequireFromString("6100.00"),
			Deals:    2,
			InPeriod: 1,
		},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rep); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != ForecastSheet || got[1] != SummarySheet {
		t.Fatalf("sheets = %v", got)
	}

	rows, err := f.GetRows(ForecastSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0][0] != "Deal Name" || rows[0][5] != "Forecast Value" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Acme" || rows[1][2] != "Advance" || rows[1][5] != "6100" {
		t.Errorf("row = %v", rows[1])
	}

	baseline, err := f.GetCellValue(SummarySheet, "B2", excelize.Options{RawCellValue: true})
	if err != nil || baseline != "15000" {
		t.Errorf("baseline cell = %q, %v", baseline, err)
	}
}
