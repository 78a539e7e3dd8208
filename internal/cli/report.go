package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/dealcast/internal/model"
)

// Labels shared by every rendering of the comparison.
const (
	ChartTitle     = "Forecast Comparison"
	ChartAxis      = "USD"
	BaselineLabel  = "Baseline (Total Pipeline)"
	ForecastLabel  = "Forecast (Selected Period)"
	barChartWidth  = 36
	nameColumnMax  = 32
	stageColumnMax = 34
)

// DealHeaders are the columns of the filtered deal table.
var DealHeaders = []string{
	"Deal Name", "Deal Value", "Forecast Action", "Current Stage", "Expected Close Date", "Forecast Value",
}

// DealTable builds the table of rows in the selected period.
func DealTable(rep model.Report) Table {
	t := Table{
		Title:   fmt.Sprintf("Deals in %s", rep.Period),
		Headers: DealHeaders,
		Right:   []bool{false, true, false, false, false, true},
	}
	for _, r := range rep.Rows {
		t.Rows = append(t.Rows, []string{
			Truncate(r.Name, nameColumnMax),
			FormatMoney(r.Value),
			r.Disposition.String(),
			Truncate(r.StageLabel, stageColumnMax),
			FormatDate(r.CloseDate),
			FormatMoneyCents(r.ForecastValue),
		})
	}
	if len(rep.Rows) > 0 {
		t.Rows = append(t.Rows,
			[]string{"---"},
			[]string{"Total", "", "", "", "", FormatMoneyCents(rep.Totals.Forecast)},
		)
	}
	return t
}

// RenderComparison renders the baseline and forecast bars.
func RenderComparison(totals model.Totals) string {
	base := totals.Baseline.InexactFloat64()
	fc := totals.Forecast.InexactFloat64()
	peak := max(base, fc)
	labelWidth := max(len(BaselineLabel), len(ForecastLabel))

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(ChartTitle + " (" + ChartAxis + ")"))
	b.WriteString("\n")
	b.WriteString(RenderHorizontalBar(BaselineLabel, labelWidth, base, peak, barChartWidth, baselineStyle))
	b.WriteString("  " + mutedStyle.Render(FormatMoney(totals.Baseline)) + "\n")
	b.WriteString(RenderHorizontalBar(ForecastLabel, labelWidth, fc, peak, barChartWidth, moneyStyle))
	b.WriteString("  " + mutedStyle.Render(FormatMoney(totals.Forecast)) + "\n")
	return b.String()
}

// RenderReport renders the full terminal report: title, deal table and
// comparison bars.
func RenderReport(rep model.Report) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderTitle(fmt.Sprintf("Pipeline Forecast  |  %s", rep.Period)))
	b.WriteString("\n\n")

	if len(rep.Rows) == 0 {
		b.WriteString("  " + warnStyle.Render("No deals close in "+rep.Period.String()) + "\n")
	} else {
		b.WriteString(RenderTable(DealTable(rep)))
	}
	b.WriteString("\n")

	b.WriteString(RenderComparison(rep.Totals))
	b.WriteString("\n")

	b.WriteString("  " + mutedStyle.Render(fmt.Sprintf(
		"%d of %d deals in period · %s of pipeline",
		rep.Totals.InPeriod, rep.Totals.Deals,
		FormatRatio(rep.Totals.Forecast, rep.Totals.Baseline),
	)))
	if rep.Totals.Undated > 0 {
		b.WriteString("  " + warnStyle.Render(fmt.Sprintf("%d without a close date", rep.Totals.Undated)))
	}
	b.WriteString("\n")

	return b.String()
}
