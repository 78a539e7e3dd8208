package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/dealcast/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "dealcast.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testDeals() []model.Deal {
	return []model.Deal{
		{Key: "k1", Name: "Acme", Value: decimal.NewFromInt(100)},
		{Key: "k2", Name: "Globex", Value: decimal.NewFromInt(200)},
		{Key: "k3", Name: "Initech", Value: decimal.NewFromInt(300)},
	}
}

func TestSaveAndLoadChoices(t *testing.T) {
	s := openTemp(t)
	deals := testDeals()

	err := s.SaveChoices(deals, model.Choices{
		"k1": model.DispositionAdvance,
		"k2": model.DispositionBin,
		"k3": model.DispositionUnknown,
	})
	if err != nil {
		t.Fatalf("SaveChoices() error = %v", err)
	}

	got, err := s.LoadChoices([]string{"k1", "k3", "missing"})
	if err != nil {
		t.Fatalf("LoadChoices() error = %v", err)
	}
	if len(got) != 1 || got["k1"] != model.DispositionAdvance {
		t.Errorf("LoadChoices() = %v, want only k1=Advance", got)
	}

	n, err := s.ChoiceCount()
	if err != nil || n != 2 {
		t.Errorf("ChoiceCount() = %d, %v; want 2", n, err)
	}
}

func TestSaveChoice_Overwrites(t *testing.T) {
	s := openTemp(t)
	d := testDeals()[0]

	if err := s.SaveChoice(d, model.DispositionWin); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveChoice(d, model.DispositionBin); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadChoices([]string{d.Key})
	if err != nil {
		t.Fatal(err)
	}
	if got[d.Key] != model.DispositionBin {
		t.Errorf("choice = %v, want Bin", got[d.Key])
	}
}

func TestForgetAndClear(t *testing.T) {
	s := openTemp(t)
	deals := testDeals()
	if err := s.SaveChoices(deals, model.Choices{"k1": model.DispositionWin, "k2": model.DispositionWin}); err != nil {
		t.Fatal(err)
	}

	if err := s.Forget("k1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.ChoiceCount(); n != 1 {
		t.Errorf("ChoiceCount() after Forget = %d, want 1", n)
	}

	if err := s.RecordFile("deals.csv", 3); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.ChoiceCount(); n != 0 {
		t.Errorf("ChoiceCount() after Clear = %d, want 0", n)
	}
	if files, _ := s.RecentFiles(5); len(files) != 0 {
		t.Errorf("RecentFiles() after Clear = %v, want none", files)
	}
}

func TestRecentFiles_NewestFirst(t *testing.T) {
	s := openTemp(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, p := range []string{"/tmp/a.csv", "/tmp/b.xlsx", "/tmp/a.csv"} {
		if err := s.RecordFile(p, 4); err != nil {
			t.Fatal(err)
		}
	}

	files, err := s.RecentFiles(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("len(RecentFiles()) = %d, want 2", len(files))
	}
	if files[0].Path != "/tmp/a.csv" || files[1].Path != "/tmp/b.xlsx" {
		t.Errorf("order = %s, %s; want a.csv first", files[0].Path, files[1].Path)
	}
	if files[0].DealCount != 4 || files[0].OpenedAt.IsZero() {
		t.Errorf("files[0] = %+v", files[0])
	}
}
