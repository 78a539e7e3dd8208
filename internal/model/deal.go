// Package model defines domain types for dealcast deals and forecasts.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal is one row of the input spreadsheet.
type Deal struct {
	Key        string // stable identity used to key disposition choices
	Line       int    // 1-based source row, for messages only
	Name       string
	Value      decimal.Decimal
	StageLabel string // raw stage text as it appeared in the file
	Stage      Stage
	CloseDate  time.Time // zero when the input date was missing or unparsable
}

// HasCloseDate reports whether the expected close date is defined.
func (d Deal) HasCloseDate() bool {
	return !d.CloseDate.IsZero()
}

// Row is a deal with its chosen disposition and derived forecast value.
type Row struct {
	Deal
	Disposition   Disposition
	ForecastValue decimal.Decimal
}

// Choices maps a deal key to the disposition the user picked for it.
type Choices map[string]Disposition

// Clone returns an independent copy of c.
func (c Choices) Clone() Choices {
	out := make(Choices, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Totals holds the two compared sums plus the counts behind them.
type Totals struct {
	Baseline decimal.Decimal // sum of all deal values, unfiltered
	Forecast decimal.Decimal // sum of forecast values in the selected period

	Deals    int
	InPeriod int
	Undated  int
}

// Report is everything a renderer needs for one period selection.
type Report struct {
	Period  Period
	Options []Period
	Rows    []Row
	Totals  Totals
}
