package forecast

import (
	"fmt"
	"log/slog"

	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/source"
)

// ChoiceStore recalls dispositions picked in earlier runs.
type ChoiceStore interface {
	LoadChoices(keys []string) (model.Choices, error)
}

// LoadResult holds the deals read from a file plus any remembered choices.
type LoadResult struct {
	Source     *source.Result
	Choices    model.Choices
	Remembered int
}

// Deals returns the loaded deals in input order.
func (r *LoadResult) Deals() []model.Deal {
	if r == nil || r.Source == nil {
		return nil
	}
	return r.Source.Deals
}

// Load reads path and, when store is non-nil, recalls earlier choices for
// its deals. A failing store is logged and otherwise ignored.
func Load(path, sheet string, store ChoiceStore, logger *slog.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := source.ReadFile(path, sheet)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	logger.Debug("read deals",
		"path", path,
		"format", res.Format,
		"deals", len(res.Deals),
		"bad_values", res.BadValues,
		"bad_dates", res.BadDates,
		"unknown_stages", res.UnknownStages,
		"blank_rows", res.BlankRows,
	)

	out := &LoadResult{Source: res, Choices: make(model.Choices)}
	if store == nil || len(res.Deals) == 0 {
		return out, nil
	}

	keys := make([]string, len(res.Deals))
	for i, d := range res.Deals {
		keys[i] = d.Key
	}
	remembered, err := store.LoadChoices(keys)
	if err != nil {
		logger.Warn("recalling dispositions", "error", err)
		return out, nil
	}
	for k, v := range remembered {
		if v.Valid() {
			out.Choices[k] = v
		}
	}
	out.Remembered = len(out.Choices)

	return out, nil
}
