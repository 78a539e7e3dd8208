// Package source reads deal spreadsheets (CSV and XLSX) into model.Deal values.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/dealcast/internal/model"
)

// Required input columns, matched exactly after trimming.
const (
	ColName      = "Deal Name"
	ColValue     = "Deal Value"
	ColStage     = "Current Stage"
	ColCloseDate = "Expected Close Date"
)

// RequiredColumns lists the header cells every input must carry.
var RequiredColumns = []string{ColName, ColValue, ColStage, ColCloseDate}

// SchemaError reports an input whose header lacks required columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "CSV must include: " + strings.Join(RequiredColumns, ", ")
}

// Result holds the deals read from one input plus coercion counters.
type Result struct {
	Deals  []model.Deal
	Format string // "csv" or "xlsx"
	Sheet  string // worksheet read, xlsx only

	BadValues     int // value cells coerced to 0
	BadDates      int // date cells left undefined
	UnknownStages int // stage labels outside the canonical set
	BlankRows     int
}

// ReadFile opens path and reads it according to its extension.
func ReadFile(path, sheet string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), sheet)
}

// Read parses r as XLSX when name ends in .xlsx or .xlsm, and as CSV otherwise.
func Read(r io.Reader, name, sheet string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, sheet)
	default:
		return ReadCSV(r)
	}
}

// ReadCSV parses comma-separated input. Blank lines are skipped and rows
// may have any number of fields.
func ReadCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	res := &Result{Format: "csv"}
	if err := res.build(records, false); err != nil {
		return nil, err
	}
	return res, nil
}

// ReadXLSX parses the named worksheet, or the first one when sheet is empty.
// Numeric date cells are interpreted as Excel serial dates.
func ReadXLSX(r io.Reader, sheet string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (have %s)", sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	res := &Result{Format: "xlsx", Sheet: sheet}
	if err := res.build(rows, true); err != nil {
		return nil, err
	}
	return res, nil
}

func cleanHeader(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

// build validates the header and converts the remaining records to deals.
func (res *Result) build(records [][]string, serialDates bool) error {
	if len(records) == 0 {
		return &SchemaError{Missing: RequiredColumns}
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		name := cleanHeader(h)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	cell := func(rec []string, col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	keys := newKeyer()
	for n, rec := range records[1:] {
		if isBlank(rec) {
			res.BlankRows++
			continue
		}

		d := model.Deal{
			Line:       n + 2,
			Name:       cell(rec, ColName),
			StageLabel: cell(rec, ColStage),
		}

		var ok bool
		if d.Value, ok = parseValue(cell(rec, ColValue)); !ok {
			res.BadValues++
		}
		if d.CloseDate, ok = parseDate(cell(rec, ColCloseDate), serialDates); !ok {
			res.BadDates++
		}
		if d.Stage = model.ParseStage(d.StageLabel); d.Stage == model.StageUnknown {
			res.UnknownStages++
		}

		d.Key = keys.key(d)
		res.Deals = append(res.Deals, d)
	}
	return nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
