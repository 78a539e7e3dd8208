package model

import "testing"

func TestParseDisposition(t *testing.T) {
	tests := []struct {
		in   string
		want Disposition
	}{
		{"Win", DispositionWin},
		{"win", DispositionWin},
		{"  WIN ", DispositionWin},
		{"Advance", DispositionAdvance},
		{"\tadvance\n", DispositionAdvance},
		{"Bin", DispositionBin},
		{"", DispositionUnknown},
		{"lose", DispositionUnknown},
		{"w in", DispositionUnknown},
	}
	for _, tt := range tests {
		if got := ParseDisposition(tt.in); got != tt.want {
			t.Errorf("ParseDisposition(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDispositionCycle(t *testing.T) {
	d := DispositionWin
	seen := []Disposition{d}
	for i := 0; i < 3; i++ {
		d = d.Next()
		seen = append(seen, d)
	}
	want := []Disposition{DispositionWin, DispositionAdvance, DispositionBin, DispositionWin}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("Next cycle = %v, want %v", seen, want)
		}
	}
	for _, d := range Dispositions {
		if d.Next().Prev() != d {
			t.Errorf("%v.Next().Prev() = %v", d, d.Next().Prev())
		}
	}
}

func TestDispositionUnmarshalText(t *testing.T) {
	var d Disposition
	if err := d.UnmarshalText([]byte(" Advance ")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if d != DispositionAdvance {
		t.Fatalf("got %v, want Advance", d)
	}
	if err := d.UnmarshalText([]byte("maybe")); err == nil {
		t.Fatal("UnmarshalText(maybe) returned nil error")
	}
}

func TestParseStage(t *testing.T) {
	for _, s := range Stages() {
		if got := ParseStage(s.Label()); got != s {
			t.Errorf("ParseStage(%q) = %v, want %v", s.Label(), got, s)
		}
		if !s.Known() {
			t.Errorf("%v.Known() = false", s)
		}
	}
	for _, label := range []string{"", "S7 - Renewal", "s3 - initial deep-dive completed"} {
		if got := ParseStage(label); got != StageUnknown {
			t.Errorf("ParseStage(%q) = %v, want StageUnknown", label, got)
		}
	}
	if StageUnknown.Known() {
		t.Error("StageUnknown.Known() = true")
	}
}

func TestPeriodString(t *testing.T) {
	if got := (Period{Year: 2025, Quarter: 3}).String(); got != "2025Q3" {
		t.Errorf("quarter token = %q", got)
	}
	if got := (Period{Year: 2025}).String(); got != "2025FY" {
		t.Errorf("fiscal year token = %q", got)
	}
}
