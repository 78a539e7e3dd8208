// Package chart renders the baseline vs forecast comparison as an HTML bar chart.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/model"
)

const (
	colorBaseline = "#4385BE"
	colorForecast = "#879A39"

	widthPx  = 900
	heightPx = 520
)

// ComparisonBar builds the two-bar chart for a report.
func ComparisonBar(rep model.Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s %s", cli.ChartTitle, rep.Period),
			Theme:     types.ThemeWesteros,
			Width:     fmt.Sprintf("%dpx", widthPx),
			Height:    fmt.Sprintf("%dpx", heightPx),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: cli.ChartTitle,
			Subtitle: fmt.Sprintf("%s · %d of %d deals in period",
				rep.Period, rep.Totals.InPeriod, rep.Totals.Deals),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      cli.ChartAxis,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true)},
		}),
	)

	bar.SetXAxis([]string{cli.BaselineLabel, cli.ForecastLabel})
	bar.AddSeries(cli.ChartAxis, []opts.BarData{
		{
			Name:      cli.BaselineLabel,
			Value:     rep.Totals.Baseline.Round(2).InexactFloat64(),
			ItemStyle: &opts.ItemStyle{Color: colorBaseline},
		},
		{
			Name:      cli.ForecastLabel,
			Value:     rep.Totals.Forecast.Round(2).InexactFloat64(),
			ItemStyle: &opts.ItemStyle{Color: colorForecast},
		},
	})
	return bar
}

// Render writes a standalone HTML page with the comparison chart.
func Render(w io.Writer, rep model.Report) error {
	if err := ComparisonBar(rep).Render(w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
