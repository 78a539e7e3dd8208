package forecast

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/source"
)

type memStore struct {
	choices model.Choices
	err     error
	asked   []string
}

func (m *memStore) LoadChoices(keys []string) (model.Choices, error) {
	m.asked = keys
	if m.err != nil {
		return nil, m.err
	}
	out := make(model.Choices)
	for _, k := range keys {
		if d, ok := m.choices[k]; ok {
			out[k] = d
		}
	}
	return out, nil
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deals.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleCSV = `Deal Name,Deal Value,Current Stage,Expected Close Date
Acme,10000,S3 - Initial Deep-dive Completed,2025-07-15
Globex,5000,S6 - Closed Won,2025-05-01
`

func TestLoad_RecallsChoices(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	first, err := Load(path, "", nil, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(first.Deals()) != 2 || len(first.Choices) != 0 {
		t.Fatalf("first load = %d deals, %d choices", len(first.Deals()), len(first.Choices))
	}

	acme := first.Deals()[0].Key
	store := &memStore{choices: model.Choices{acme: model.DispositionBin, "gone": model.DispositionWin}}

	res, err := Load(path, "", store, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(store.asked) != 2 {
		t.Errorf("store asked for %d keys, want 2", len(store.asked))
	}
	if res.Remembered != 1 || res.Choices[acme] != model.DispositionBin {
		t.Errorf("Choices = %v, Remembered = %d; want acme=Bin", res.Choices, res.Remembered)
	}
}

func TestLoad_StoreErrorIsNotFatal(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	res, err := Load(path, "", &memStore{err: errors.New("disk on fire")}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(res.Deals()) != 2 || len(res.Choices) != 0 {
		t.Errorf("got %d deals, %d choices", len(res.Deals()), len(res.Choices))
	}
}

func TestLoad_SchemaErrorWrapped(t *testing.T) {
	path := writeCSV(t, "Name,Value\nAcme,1\n")

	_, err := Load(path, "", nil, nil)
	var se *source.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Load() error = %v, want *source.SchemaError", err)
	}
}
