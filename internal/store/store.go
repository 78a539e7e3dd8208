// Package store remembers disposition choices and recently opened files in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/dealcast/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// openedLayout sorts lexically in time order.
const openedLayout = "2006-01-02T15:04:05.000000Z07:00"

// Store is the SQLite-backed memory of user choices.
// Deal values and dates are never written here.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveChoice records one deal's disposition.
func (s *Store) SaveChoice(d model.Deal, disp model.Disposition) error {
	return s.SaveChoices([]model.Deal{d}, model.Choices{d.Key: disp})
}

// SaveChoices records the dispositions in choices for the given deals in a
// single transaction. Deals without an entry are left untouched.
func (s *Store) SaveChoices(deals []model.Deal, choices model.Choices) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO dispositions
		(deal_key, disposition, deal_name, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := s.now().UTC().Format(time.RFC3339)
	for _, d := range deals {
		disp, ok := choices[d.Key]
		if !ok || !disp.Valid() {
			continue
		}
		if _, err := stmt.Exec(d.Key, disp.String(), d.Name, now); err != nil {
			return fmt.Errorf("saving %s: %w", d.Key, err)
		}
	}

	return tx.Commit()
}

// LoadChoices returns the remembered dispositions for keys.
// Keys with no memory are absent from the result.
func (s *Store) LoadChoices(keys []string) (model.Choices, error) {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	rows, err := s.db.Query("SELECT deal_key, disposition FROM dispositions")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(model.Choices)
	for rows.Next() {
		var key, disp string
		if err := rows.Scan(&key, &disp); err != nil {
			return nil, err
		}
		if _, ok := want[key]; !ok {
			continue
		}
		if d := model.ParseDisposition(disp); d.Valid() {
			result[key] = d
		}
	}
	return result, rows.Err()
}

// Forget removes the memory for one deal key.
func (s *Store) Forget(key string) error {
	_, err := s.db.Exec("DELETE FROM dispositions WHERE deal_key = ?", key)
	return err
}

// Clear removes every remembered disposition and recent file.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM dispositions; DELETE FROM recent_files;")
	return err
}

// ChoiceCount returns the number of remembered dispositions.
func (s *Store) ChoiceCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM dispositions").Scan(&count)
	return count, err
}

// RecentFile is an input file opened in an earlier run.
type RecentFile struct {
	Path      string
	DealCount int
	OpenedAt  time.Time
}

// RecordFile notes that path was opened and held dealCount deals.
func (s *Store) RecordFile(path string, dealCount int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO recent_files (file_path, deal_count, opened_at)
		VALUES (?, ?, ?)`, abs, dealCount, s.now().UTC().Format(openedLayout))
	return err
}

// RecentFiles returns up to limit files, most recently opened first.
func (s *Store) RecentFiles(limit int) ([]RecentFile, error) {
	rows, err := s.db.Query(`SELECT file_path, deal_count, opened_at
		FROM recent_files ORDER BY opened_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var files []RecentFile
	for rows.Next() {
		var f RecentFile
		var opened string
		if err := rows.Scan(&f.Path, &f.DealCount, &opened); err != nil {
			return nil, err
		}
		f.OpenedAt, _ = time.Parse(openedLayout, opened)
		files = append(files, f)
	}
	return files, rows.Err()
}
