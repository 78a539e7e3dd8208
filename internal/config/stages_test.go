package config

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/dealcast/internal/model"
)

func TestLookupProbability_CanonicalLabels(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"S1 - Introductory Call Completed", "0.30"},
		{"S2 - Sales Qualified Opportunity", "0.42"},
		{"S3 - Initial Deep-dive Completed", "0.61"},
		{"S4 - Solution Fit Confirmed", "0.81"},
		{"S5 - Pricing and Negotiation", "0.95"},
		{"S6 - Closed Won", "1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := LookupProbability(tt.label)
			if !ok {
				t.Fatalf("LookupProbability(%q) returned !ok", tt.label)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("LookupProbability(%q) = %s, want %s", tt.label, got, tt.want)
			}
		})
	}
}

func TestLookupProbability_RequiresExactLabel(t *testing.T) {
	for _, label := range []string{
		"",
		"S7 - Unknown",
		"s1 - introductory call completed",
		" S1 - Introductory Call Completed",
		"S1",
	} {
		got, ok := LookupProbability(label)
		if ok {
			t.Errorf("LookupProbability(%q) = %s, want !ok", label, got)
		}
		if !got.IsZero() {
			t.Errorf("LookupProbability(%q) = %s, want zero", label, got)
		}
	}
}

func TestStageTable_IsOrderedAndCopied(t *testing.T) {
	table := StageTable()
	if len(table) != len(model.Stages()) {
		t.Fatalf("len(StageTable()) = %d, want %d", len(table), len(model.Stages()))
	}
	for i, s := range model.Stages() {
		if table[i].Stage != s {
			t.Fatalf("table[%d].Stage = %v, want %v", i, table[i].Stage, s)
		}
		if i > 0 && !table[i].Probability.GreaterThan(table[i-1].Probability) {
			t.Fatalf("probabilities not increasing at %d", i)
		}
	}

	table[0].Probability = decimal.NewFromInt(9)
	if p, _ := ProbabilityFor(model.StageIntroCall); !p.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("StageTable() exposed internal state: S1 = %s", p)
	}
}
