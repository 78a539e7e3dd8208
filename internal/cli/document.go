package cli

import (
	"github.com/theirongolddev/dealcast/internal/model"
)

// Document is the machine-readable form of a report, shared by the JSON and
// YAML outputs and the HTTP API. Money is a fixed two-place decimal string.
type Document struct {
	Period  string      `json:"period" yaml:"period"`
	Options []string    `json:"options" yaml:"options"`
	Deals   []DealEntry `json:"deals" yaml:"deals"`
	Totals  TotalsEntry `json:"totals" yaml:"totals"`
}

// DealEntry is one forecast row.
type DealEntry struct {
	Key           string `json:"key" yaml:"key"`
	Name          string `json:"name" yaml:"name"`
	Value         string `json:"value" yaml:"value"`
	Action        string `json:"action,omitempty" yaml:"action,omitempty"`
	Stage         string `json:"stage" yaml:"stage"`
	CloseDate     string `json:"close_date,omitempty" yaml:"close_date,omitempty"`
	ForecastValue string `json:"forecast_value,omitempty" yaml:"forecast_value,omitempty"`
}

// TotalsEntry carries the compared sums.
type TotalsEntry struct {
	Baseline string `json:"baseline" yaml:"baseline"`
	Forecast string `json:"forecast" yaml:"forecast"`
	Deals    int    `json:"deals" yaml:"deals"`
	InPeriod int    `json:"in_period" yaml:"in_period"`
	Undated  int    `json:"undated" yaml:"undated"`
}

// NewDocument converts a report for serialization.
func NewDocument(rep model.Report) Document {
	doc := Document{
		Period:  rep.Period.String(),
		Options: PeriodStrings(rep.Options),
		Deals:   make([]DealEntry, 0, len(rep.Rows)),
		Totals: TotalsEntry{
			Baseline: rep.Totals.Baseline.StringFixed(2),
			Forecast: rep.Totals.Forecast.StringFixed(2),
			Deals:    rep.Totals.Deals,
			InPeriod: rep.Totals.InPeriod,
			Undated:  rep.Totals.Undated,
		},
	}
	for _, r := range rep.Rows {
		e := NewDealEntry(r.Deal)
		e.Action = r.Disposition.String()
		e.ForecastValue = r.ForecastValue.StringFixed(2)
		doc.Deals = append(doc.Deals, e)
	}
	return doc
}

// NewDealEntry converts a deal without forecast fields.
func NewDealEntry(d model.Deal) DealEntry {
	e := DealEntry{
		Key:   d.Key,
		Name:  d.Name,
		Value: d.Value.StringFixed(2),
		Stage: d.StageLabel,
	}
	if d.HasCloseDate() {
		e.CloseDate = d.CloseDate.Format("2006-01-02")
	}
	return e
}

// PeriodStrings renders period tokens.
func PeriodStrings(ps []model.Period) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
