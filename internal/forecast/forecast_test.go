package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/dealcast/internal/config"
	"github.com/theirongolddev/dealcast/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func deal(key, value string, stage model.Stage, close time.Time) model.Deal {
	return model.Deal{
		Key:        key,
		Name:       key,
		Value:      dec(value),
		StageLabel: stage.Label(),
		Stage:      stage,
		CloseDate:  close,
	}
}

func fixedNow(t time.Time) Options {
	return Options{Now: func() time.Time { return t }}
}

func TestCompute_Win(t *testing.T) {
	for _, s := range append(model.Stages(), model.StageUnknown) {
		got := Compute("Win", s.Label(), dec("5000"))
		if !got.Equal(dec("5000")) {
			t.Errorf("Compute(Win, %v) = %s, want 5000", s, got)
		}
	}
}

func TestCompute_Bin(t *testing.T) {
	for _, s := range model.Stages() {
		if got := Compute("Bin", s.Label(), dec("5000")); !got.IsZero() {
			t.Errorf("Compute(Bin, %v) = %s, want 0", s, got)
		}
	}
}

func TestCompute_AdvanceUsesStageProbability(t *testing.T) {
	value := dec("12345.67")
	for _, sp := range config.StageTable() {
		got := Compute("Advance", sp.Stage.Label(), value)
		want := value.Mul(sp.Probability)
		if !got.Equal(want) {
			t.Errorf("Compute(Advance, %v) = %s, want %s", sp.Stage, got, want)
		}
	}
}

func TestCompute_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		stage       string
		value       string
		want        string
	}{
		{"advance deep dive", "Advance", "S3 - Initial Deep-dive Completed", "10000", "6100.00"},
		{"win", "Win", "S1 - Introductory Call Completed", "5000", "5000"},
		{"bin", "Bin", "S6 - Closed Won", "5000", "0"},
		{"advance unknown stage", "Advance", "S7 - Mystery", "5000", "0"},
		{"advance empty stage", "advance", "", "5000", "0"},
		{"unknown disposition", "maybe", "S6 - Closed Won", "5000", "0"},
		{"empty disposition", "", "S6 - Closed Won", "5000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.disposition, tt.stage, dec(tt.value))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Compute(%q, %q, %s) = %s, want %s", tt.disposition, tt.stage, tt.value, got, tt.want)
			}
		})
	}
}

func TestCompute_DispositionNormalization(t *testing.T) {
	stage := model.StageSolutionFit.Label()
	for _, group := range [][]string{
		{"  WIN ", "win", "Win", "wIn\t"},
		{"ADVANCE", " advance", "Advance  "},
		{"BIN", "bin ", " Bin"},
	} {
		want := Compute(group[0], stage, dec("800"))
		for _, d := range group[1:] {
			if got := Compute(d, stage, dec("800")); !got.Equal(want) {
				t.Errorf("Compute(%q) = %s, want %s (same as %q)", d, got, want, group[0])
			}
		}
	}
}

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{day(2025, 1, 1), "2025Q1"},
		{day(2025, 3, 31), "2025Q1"},
		{day(2025, 4, 1), "2025Q2"},
		{day(2025, 9, 30), "2025Q3"},
		{day(2025, 12, 31), "2025Q4"},
	}
	for _, tt := range tests {
		got, ok := QuarterOf(tt.date)
		if !ok || got.String() != tt.want {
			t.Errorf("QuarterOf(%v) = %s, %v; want %s", tt.date, got, ok, tt.want)
		}
	}
	if _, ok := QuarterOf(time.Time{}); ok {
		t.Error("QuarterOf(zero) ok = true, want false")
	}
}

func TestPeriodOptions(t *testing.T) {
	got := PeriodOptions(day(2026, 10, 17))
	want := []string{"2026Q2", "2026Q3", "2026Q4", "2026FY"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("option %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParsePeriod(t *testing.T) {
	valid := map[string]model.Period{
		"2025Q3":   {Year: 2025, Quarter: 3},
		" 2025fy ": {Year: 2025},
		"2024q1":   {Year: 2024, Quarter: 1},
	}
	for in, want := range valid {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Errorf("ParsePeriod(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "2025", "2025Q5", "2025Q0", "25Q3", "abcdQ1", "2025H1", "2025Q33"} {
		if _, err := ParsePeriod(in); err == nil {
			t.Errorf("ParsePeriod(%q) error = nil, want error", in)
		}
	}
}

func TestSelectPeriod(t *testing.T) {
	now := day(2025, 6, 1)
	tests := []struct {
		token   string
		want    string
		wantErr bool
	}{
		{"", "2025Q2", false},
		{"2025Q4", "2025Q4", false},
		{"FY", "2025FY", false},
		{"q3", "2025Q3", false},
		{"2025Q1", "", true},
		{"2024FY", "", true},
		{"garbage", "", true},
	}
	for _, tt := range tests {
		got, err := SelectPeriod(tt.token, now)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SelectPeriod(%q) = %s, want error", tt.token, got)
			}
			continue
		}
		if err != nil || got.String() != tt.want {
			t.Errorf("SelectPeriod(%q) = %s, %v; want %s", tt.token, got, err, tt.want)
		}
	}
}

func pipeline() []model.Deal {
	return []model.Deal{
		deal("q1", "1000", model.StageIntroCall, day(2025, 2, 10)),
		deal("q3a", "10000", model.StageDeepDive, day(2025, 7, 15)),
		deal("q2", "5000", model.StageClosedWon, day(2025, 5, 1)),
		deal("undated", "700", model.StageQualified, time.Time{}),
		deal("q3b", "2000", model.StageNegotiation, day(2025, 9, 30)),
		deal("q4", "3000", model.StageSolutionFit, day(2025, 11, 2)),
		deal("next", "9000", model.StageClosedWon, day(2026, 7, 1)),
	}
}

func keysOf(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key
	}
	return out
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter_QuarterSelection(t *testing.T) {
	rows := Rows(pipeline(), nil, model.DispositionWin)

	q3 := Filter(rows, model.Period{Year: 2025, Quarter: 3})
	if got := keysOf(q3); !equalKeys(got, []string{"q3a", "q3b"}) {
		t.Errorf("2025Q3 = %v, want [q3a q3b]", got)
	}

	q2 := Filter(rows, model.Period{Year: 2025, Quarter: 2})
	if got := keysOf(q2); !equalKeys(got, []string{"q2"}) {
		t.Errorf("2025Q2 = %v, want [q2]", got)
	}
}

func TestFilter_FiscalYearCoversQuartersAndQ1(t *testing.T) {
	rows := Rows(pipeline(), nil, model.DispositionWin)
	fy := keysOf(Filter(rows, model.Period{Year: 2025}))

	if !equalKeys(fy, []string{"q1", "q3a", "q2", "q3b", "q4"}) {
		t.Fatalf("2025FY = %v", fy)
	}

	inFY := map[string]bool{}
	for _, k := range fy {
		inFY[k] = true
	}
	for q := 2; q <= 4; q++ {
		for _, r := range Filter(rows, model.Period{Year: 2025, Quarter: q}) {
			if !inFY[r.Key] {
				t.Errorf("%s in Q%d but not in FY", r.Key, q)
			}
		}
	}
	for _, p := range PeriodOptions(day(2025, 1, 1))[:3] {
		for _, r := range Filter(rows, p) {
			if r.Key == "q1" {
				t.Errorf("Q1 deal selected by %s", p)
			}
		}
	}
}

func TestFilter_IdempotentAndUndatedNeverMatch(t *testing.T) {
	rows := Rows(pipeline(), nil, model.DispositionWin)
	for _, p := range append(PeriodOptions(day(2025, 1, 1)), model.Period{Year: 1, Quarter: 1}) {
		once := Filter(rows, p)
		twice := Filter(once, p)
		if !equalKeys(keysOf(once), keysOf(twice)) {
			t.Errorf("Filter not idempotent for %s: %v vs %v", p, keysOf(once), keysOf(twice))
		}
		for _, r := range once {
			if r.Key == "undated" {
				t.Errorf("undated deal matched %s", p)
			}
		}
	}
}

func TestAggregate_BaselineIndependentOfPeriod(t *testing.T) {
	deals := pipeline()
	choices := model.Choices{"q3a": model.DispositionAdvance, "q2": model.DispositionBin}
	opts := fixedNow(day(2025, 6, 1))

	var baseline decimal.Decimal
	for i, p := range PeriodOptions(day(2025, 6, 1)) {
		rep := Evaluate(deals, choices, p, opts)
		if i == 0 {
			baseline = rep.Totals.Baseline
		} else if !rep.Totals.Baseline.Equal(baseline) {
			t.Errorf("baseline for %s = %s, want %s", p, rep.Totals.Baseline, baseline)
		}
	}
	if !baseline.Equal(dec("30700")) {
		t.Errorf("baseline = %s, want 30700", baseline)
	}
}

func TestEvaluate_Q3Forecast(t *testing.T) {
	choices := model.Choices{
		"q3a": model.DispositionAdvance, // 10000 * 0.61
		"q3b": model.DispositionWin,     // 2000
	}
	rep := Evaluate(pipeline(), choices, model.Period{Year: 2025, Quarter: 3}, fixedNow(day(2025, 6, 1)))

	if !rep.Totals.Forecast.Equal(dec("8100")) {
		t.Errorf("Forecast = %s, want 8100", rep.Totals.Forecast)
	}
	if rep.Totals.Deals != 7 || rep.Totals.InPeriod != 2 || rep.Totals.Undated != 1 {
		t.Errorf("counts = %+v, want 7/2/1", rep.Totals)
	}
	if len(rep.Options) != 4 || rep.Options[0].String() != "2025Q2" {
		t.Errorf("Options = %v", rep.Options)
	}
}

func TestEvaluate_DefaultDisposition(t *testing.T) {
	deals := []model.Deal{deal("a", "1000", model.StageIntroCall, day(2025, 5, 5))}

	rep := Evaluate(deals, nil, model.Period{}, fixedNow(day(2025, 1, 1)))
	if rep.Period.String() != "2025Q2" {
		t.Errorf("zero period resolved to %s, want 2025Q2", rep.Period)
	}
	if rep.Rows[0].Disposition != model.DispositionWin {
		t.Errorf("default disposition = %v, want Win", rep.Rows[0].Disposition)
	}

	opts := fixedNow(day(2025, 1, 1))
	opts.DefaultDisposition = model.DispositionAdvance
	rep = Evaluate(deals, model.Choices{"a": model.DispositionUnknown}, model.Period{}, opts)
	if rep.Rows[0].Disposition != model.DispositionAdvance || !rep.Totals.Forecast.Equal(dec("300")) {
		t.Errorf("row = %+v forecast %s, want Advance/300", rep.Rows[0], rep.Totals.Forecast)
	}
}

func TestEvaluate_DoesNotMutateChoices(t *testing.T) {
	choices := model.Choices{"q2": model.DispositionBin}
	before := choices.Clone()
	Evaluate(pipeline(), choices, model.Period{Year: 2025}, fixedNow(day(2025, 1, 1)))
	if len(choices) != len(before) || choices["q2"] != before["q2"] {
		t.Errorf("choices mutated: %v", choices)
	}
}
