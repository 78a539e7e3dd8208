package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/tui/components"
	"github.com/theirongolddev/dealcast/internal/tui/theme"

	"github.com/shopspring/decimal"
)

// stageForecast sums the in-period forecast per stage, unknown stages last.
func stageForecast(rows []model.Row) []components.Bar {
	t := theme.Active
	sums := make(map[model.Stage]decimal.Decimal)
	for _, r := range rows {
		sums[r.Stage] = sums[r.Stage].Add(r.ForecastValue)
	}

	stages := append(model.Stages(), model.StageUnknown)
	bars := make([]components.Bar, 0, len(stages))
	for _, s := range stages {
		v, ok := sums[s]
		if !ok && s == model.StageUnknown {
			continue
		}
		label := "?"
		if s.Known() {
			label = s.Label()[:2]
		}
		f, _ := v.Float64()
		bars = append(bars, components.Bar{
			Label: label,
			Value: f,
			Text:  cli.FormatMoneyCompact(v),
			Color: t.Accent,
		})
	}
	return bars
}

func (a App) renderChartTab(rep model.Report, cw int) string {
	t := theme.Active
	tot := rep.Totals

	ratio := 0.0
	if tot.Baseline.IsPositive() {
		ratio, _ = tot.Forecast.Div(tot.Baseline).Float64()
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: cli.BaselineLabel, Value: cli.FormatMoney(tot.Baseline), Note: fmt.Sprintf("%d deals", tot.Deals)},
		{Label: cli.ForecastLabel, Value: cli.FormatMoney(tot.Forecast), Note: rep.Period.String(), Color: t.AccentBright},
		{Label: "Retained", Value: cli.FormatRatio(tot.Forecast, tot.Baseline), Color: components.ColorForRatio(ratio)},
		{Label: "In period", Value: fmt.Sprintf("%d", tot.InPeriod), Note: fmt.Sprintf("%d undated", tot.Undated)},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	baseline, _ := tot.Baseline.Float64()
	fc, _ := tot.Forecast.Float64()
	comparison := components.HorizontalBars([]components.Bar{
		{Label: "Baseline", Value: baseline, Text: cli.FormatMoney(tot.Baseline), Color: t.Blue},
		{Label: "Forecast", Value: fc, Text: cli.FormatMoney(tot.Forecast), Color: t.Green},
	}, inner)
	comparison += "\n\n" + components.RatioBar("Retained", ratio, 8, max(inner-14, 10))
	b.WriteString(components.ContentCard(cli.ChartTitle+" ("+cli.ChartAxis+")", comparison, cw))
	b.WriteString("\n")

	body := mutedText("No deals close in " + rep.Period.String() + ".")
	if len(rep.Rows) > 0 {
		body = components.ColumnChart(stageForecast(rep.Rows), inner, 8)
	}
	b.WriteString(components.ContentCard("Forecast by stage · "+rep.Period.String(), body, cw))

	return b.String()
}
