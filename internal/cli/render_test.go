package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/dealcast/internal/model"
)

func sampleReport() model.Report {
	acme := model.Deal{
		Key:        "abc123",
		Name:       "Acme",
		Value:      decimal.NewFromInt(10000),
		StageLabel: model.StageDeepDive.Label(),
		Stage:      model.StageDeepDive,
		CloseDate:  time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
	}
	return model.Report{
		Period:  model.Period{Year: 2025, Quarter: 3},
		Options: []model.Period{{Year: 2025, Quarter: 2}, {Year: 2025, Quarter: 3}, {Year: 2025, Quarter: 4}, {Year: 2025}},
		Rows: []model.Row{{
			Deal:          acme,
			Disposition:   model.DispositionAdvance,
			ForecastValue: decimal.RequireFromString("6100.00"),
		}},
		Totals: model.Totals{
			Baseline: decimal.NewFromInt(15000),
			Forecast: decimal.RequireFromString("6100.00"),
			Deals:    3,
			InPeriod: 1,
			Undated:  1,
		},
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Amount"},
		Rows:    [][]string{{"a", "1"}, {"---"}, {"longer", "1,000"}},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "│ a      │      1 │") {
		t.Errorf("row not padded/aligned: %q", lines[3])
	}
	for _, l := range lines {
		if w := len([]rune(l)); w != len([]rune(lines[0])) {
			t.Errorf("ragged line %q (width %d)", l, w)
		}
	}
}

func TestDealTable(t *testing.T) {
	tbl := DealTable(sampleReport())
	if len(tbl.Headers) != 6 || tbl.Headers[5] != "Forecast Value" {
		t.Fatalf("Headers = %v", tbl.Headers)
	}
	row := tbl.Rows[0]
	want := []string{"Acme", "$10,000", "Advance", "S3 - Initial Deep-dive Completed", "2025-07-15", "$6,100.00"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, row[i], want[i])
		}
	}
	if last := tbl.Rows[len(tbl.Rows)-1]; last[0] != "Total" || last[5] != "$6,100.00" {
		t.Errorf("total row = %v", last)
	}
}

func TestRenderReport_ContainsComparison(t *testing.T) {
	out := RenderReport(sampleReport())
	for _, want := range []string{
		"2025Q3", "Acme", BaselineLabel, ForecastLabel, "$15,000", "$6,100", "1 of 3 deals", "1 without a close date",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	empty := sampleReport()
	empty.Rows = nil
	if out := RenderReport(empty); !strings.Contains(out, "No deals close in 2025Q3") {
		t.Errorf("empty report missing notice:\n%s", out)
	}
}

func TestNewDocument_JSONAndYAML(t *testing.T) {
	doc := NewDocument(sampleReport())

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back["period"] != "2025Q3" {
		t.Errorf("period = %v", back["period"])
	}
	deals := back["deals"].([]any)
	first := deals[0].(map[string]any)
	if first["forecast_value"] != "6100.00" || first["action"] != "Advance" || first["close_date"] != "2025-07-15" {
		t.Errorf("deal = %v", first)
	}

	y, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(y), "baseline: \"15000.00\"") {
		t.Errorf("yaml missing baseline:\n%s", y)
	}
}
