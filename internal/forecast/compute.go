// Package forecast turns deals and disposition choices into period forecasts.
package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/dealcast/internal/config"
	"github.com/theirongolddev/dealcast/internal/model"
)

// Compute returns the forecast value of a deal given a raw disposition and
// stage label. Unrecognized dispositions forecast zero, as does Advance on
// an unrecognized stage.
func Compute(disposition, stage string, value decimal.Decimal) decimal.Decimal {
	return forecastValue(model.ParseDisposition(disposition), model.ParseStage(stage), value)
}

// ComputeRow attaches a disposition to a deal and derives its forecast value.
func ComputeRow(d model.Deal, disposition model.Disposition) model.Row {
	return model.Row{
		Deal:          d,
		Disposition:   disposition,
		ForecastValue: forecastValue(disposition, d.Stage, d.Value),
	}
}

func forecastValue(disposition model.Disposition, stage model.Stage, value decimal.Decimal) decimal.Decimal {
	switch disposition {
	case model.DispositionWin:
		return value
	case model.DispositionAdvance:
		p, ok := config.ProbabilityFor(stage)
		if !ok {
			return decimal.Zero
		}
		return value.Mul(p)
	default:
		return decimal.Zero
	}
}
