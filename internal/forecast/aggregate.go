package forecast

import "github.com/theirongolddev/dealcast/internal/model"

// Aggregate computes the baseline over every row and the forecast over the
// filtered subset. The baseline does not depend on the period selection.
func Aggregate(all, filtered []model.Row) model.Totals {
	t := model.Totals{
		Deals:    len(all),
		InPeriod: len(filtered),
	}

	for _, r := range all {
		t.Baseline = t.Baseline.Add(r.Value)
		if !r.HasCloseDate() {
			t.Undated++
		}
	}
	for _, r := range filtered {
		t.Forecast = t.Forecast.Add(r.ForecastValue)
	}

	return t
}
