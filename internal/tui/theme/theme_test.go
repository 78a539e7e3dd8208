package theme

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/theirongolddev/dealcast/internal/model"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("catppuccin-mocha").Name; got != "catppuccin-mocha" {
		t.Errorf("ByName = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("unknown theme = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestForProfile(t *testing.T) {
	tests := []struct {
		profile termenv.Profile
		want    string
	}{
		{termenv.TrueColor, "catppuccin-mocha"},
		{termenv.ANSI256, "catppuccin-mocha"},
		{termenv.ANSI, "terminal"},
		{termenv.Ascii, "terminal"},
	}
	for _, tt := range tests {
		if got := ForProfile("catppuccin-mocha", tt.profile).Name; got != tt.want {
			t.Errorf("ForProfile(%v) = %q, want %q", tt.profile, got, tt.want)
		}
	}
}

func TestDispositionColors(t *testing.T) {
	th := FlexokiDark
	if th.Disposition(model.DispositionWin) != th.Green {
		t.Error("win should be green")
	}
	if th.Disposition(model.DispositionAdvance) != th.Yellow {
		t.Error("advance should be yellow")
	}
	if th.Disposition(model.DispositionBin) != th.Red {
		t.Error("bin should be red")
	}
	if th.Disposition(model.DispositionUnknown) != th.TextDim {
		t.Error("unknown should be dim")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(All) || names[0] != "flexoki-dark" {
		t.Errorf("Names() = %v", names)
	}
}
