package forecast

import (
	"time"

	"github.com/theirongolddev/dealcast/internal/model"
)

// Options controls a forecast evaluation.
type Options struct {
	// Now supplies the clock used for period options. Defaults to time.Now.
	Now func() time.Time
	// DefaultDisposition applies to deals without a recorded choice.
	// DispositionUnknown means Win.
	DefaultDisposition model.Disposition
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) defaultDisposition() model.Disposition {
	if !o.DefaultDisposition.Valid() {
		return model.DispositionWin
	}
	return o.DefaultDisposition
}

// Rows pairs every deal with its chosen disposition, in input order.
func Rows(deals []model.Deal, choices model.Choices, def model.Disposition) []model.Row {
	rows := make([]model.Row, len(deals))
	for i, d := range deals {
		disp, ok := choices[d.Key]
		if !ok || !disp.Valid() {
			disp = def
		}
		rows[i] = ComputeRow(d, disp)
	}
	return rows
}

// Evaluate runs one full render cycle: compute rows, filter to the period,
// and aggregate. A zero period selects the first option.
func Evaluate(deals []model.Deal, choices model.Choices, period model.Period, opts Options) model.Report {
	options := PeriodOptions(opts.now())
	if period.IsZero() {
		period = options[0]
	}

	all := Rows(deals, choices, opts.defaultDisposition())
	filtered := Filter(all, period)

	return model.Report{
		Period:  period,
		Options: options,
		Rows:    filtered,
		Totals:  Aggregate(all, filtered),
	}
}
