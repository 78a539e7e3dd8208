package model

import (
	"fmt"
	"strings"
)

// Disposition is the forecast action a user assigns to a deal.
type Disposition int

const (
	DispositionUnknown Disposition = iota
	DispositionWin
	DispositionAdvance
	DispositionBin
)

// Dispositions lists the selectable dispositions in selector order.
var Dispositions = []Disposition{DispositionWin, DispositionAdvance, DispositionBin}

// ParseDisposition is case-insensitive and ignores surrounding whitespace.
// Any other input yields DispositionUnknown.
func ParseDisposition(s string) Disposition {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win":
		return DispositionWin
	case "advance":
		return DispositionAdvance
	case "bin":
		return DispositionBin
	default:
		return DispositionUnknown
	}
}

// String implements fmt.Stringer.
func (d Disposition) String() string {
	switch d {
	case DispositionWin:
		return "Win"
	case DispositionAdvance:
		return "Advance"
	case DispositionBin:
		return "Bin"
	default:
		return "Unknown"
	}
}

// Valid reports whether d is one of Win, Advance or Bin.
func (d Disposition) Valid() bool {
	return d >= DispositionWin && d <= DispositionBin
}

// Next cycles forward through the selector options.
func (d Disposition) Next() Disposition {
	switch d {
	case DispositionWin:
		return DispositionAdvance
	case DispositionAdvance:
		return DispositionBin
	default:
		return DispositionWin
	}
}

// Prev cycles backward through the selector options.
func (d Disposition) Prev() Disposition {
	switch d {
	case DispositionAdvance:
		return DispositionWin
	case DispositionBin:
		return DispositionAdvance
	default:
		return DispositionBin
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Disposition) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText rejects anything outside the closed set.
func (d *Disposition) UnmarshalText(b []byte) error {
	parsed := ParseDisposition(string(b))
	if !parsed.Valid() {
		return fmt.Errorf("unknown disposition %q (want win, advance or bin)", string(b))
	}
	*d = parsed
	return nil
}
