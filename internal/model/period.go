package model

import "fmt"

// Period is a reporting window: a calendar quarter, or the whole year
// when Quarter is zero.
type Period struct {
	Year    int
	Quarter int
}

// IsFiscalYear reports whether p covers the whole year.
func (p Period) IsFiscalYear() bool {
	return p.Quarter == 0
}

// IsZero reports whether p is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Quarter == 0
}

// String renders the period token, e.g. "2025Q3" or "2025FY".
func (p Period) String() string {
	if p.IsFiscalYear() {
		return fmt.Sprintf("%dFY", p.Year)
	}
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
