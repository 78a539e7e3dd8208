package forecast

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/dealcast/internal/model"
)

// QuarterOf truncates a date to its calendar quarter.
// Returns false when the date is undefined.
func QuarterOf(t time.Time) (model.Period, bool) {
	if t.IsZero() {
		return model.Period{}, false
	}
	return model.Period{Year: t.Year(), Quarter: (int(t.Month())-1)/3 + 1}, true
}

// PeriodOptions returns the selectable periods for the year containing now:
// Q2, Q3 and Q4 of that year, then the full year.
func PeriodOptions(now time.Time) []model.Period {
	y := now.Year()
	return []model.Period{
		{Year: y, Quarter: 2},
		{Year: y, Quarter: 3},
		{Year: y, Quarter: 4},
		{Year: y},
	}
}

// ParsePeriod parses a "2025Q3" or "2025FY" token. Case and surrounding
// whitespace are ignored.
func ParsePeriod(token string) (model.Period, error) {
	s := strings.ToUpper(strings.TrimSpace(token))
	if len(s) < 6 {
		return model.Period{}, fmt.Errorf("invalid period %q: want YYYYQn or YYYYFY", token)
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 1 {
		return model.Period{}, fmt.Errorf("invalid period %q: bad year", token)
	}

	switch suffix := s[4:]; suffix {
	case "FY":
		return model.Period{Year: year}, nil
	case "Q1", "Q2", "Q3", "Q4":
		return model.Period{Year: year, Quarter: int(suffix[1] - '0')}, nil
	default:
		return model.Period{}, fmt.Errorf("invalid period %q: want YYYYQn or YYYYFY", token)
	}
}

// SelectPeriod resolves a user-supplied period against the options for now.
// An empty token selects the first option. Year-relative tokens such as
// "Q3" or "FY" take the current year. The result must be one of the options.
func SelectPeriod(token string, now time.Time) (model.Period, error) {
	options := PeriodOptions(now)

	token = strings.TrimSpace(token)
	if token == "" {
		return options[0], nil
	}
	if !startsWithDigit(token) {
		token = strconv.Itoa(now.Year()) + token
	}

	p, err := ParsePeriod(token)
	if err != nil {
		return model.Period{}, err
	}
	for _, o := range options {
		if o == p {
			return p, nil
		}
	}
	return model.Period{}, fmt.Errorf("period %s is not selectable (choose one of %s)", p, joinPeriods(options))
}

// Matches reports whether a deal's expected close date falls in p.
// Deals without a close date never match.
func Matches(d model.Deal, p model.Period) bool {
	q, ok := QuarterOf(d.CloseDate)
	if !ok {
		return false
	}
	if p.IsFiscalYear() {
		return q.Year == p.Year
	}
	return q == p
}

// Filter returns the rows whose close date falls in p, preserving order.
func Filter(rows []model.Row, p model.Period) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if Matches(r.Deal, p) {
			out = append(out, r)
		}
	}
	return out
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func joinPeriods(ps []model.Period) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
