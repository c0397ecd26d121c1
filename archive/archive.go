// Package archive keeps a campaign of sampling runs in one SQLite
// file: a row per run and a row per recorded epoch with summary
// numbers, so runs can be compared and monitored without keeping every
// checkpoint around. It satisfies the driver's Archive interface.
package archive

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hadi-ramezani/gosages/checkpoint"
	"github.com/hadi-ramezani/gosages/histo"
)

// DB is an open archive.
type DB struct {
	*sql.DB
}

//Open opens, and if needed creates, the archive at the given path.
//The usual SQLite special names work; ":memory:" gives a throwaway
//archive.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("goSAGES/archive: %w", err)
	}
	//SQLite serializes writers anyway; one connection keeps the
	//in-memory flavor coherent too.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			method TEXT,
			walkers INTEGER,
			cvs INTEGER,
			started TEXT DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS epochs (
			epoch_id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			iteration INTEGER,
			visited INTEGER,
			samples INTEGER,
			recorded TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("goSAGES/archive: %w", err)
	}
	return &DB{db}, nil
}

//RecordRun registers the run a document belongs to. Registering the
//same run again, as a resumed run does, is not an error and changes
//nothing.
func (db *DB) RecordRun(doc *checkpoint.Document) error {
	if doc.RunID == "" {
		return fmt.Errorf("goSAGES/archive: the document carries no run identity")
	}
	_, err := db.Exec("INSERT OR IGNORE INTO runs (run_id, method, walkers, cvs) VALUES (?, ?, ?, ?)",
		doc.RunID, doc.Method, doc.Walkers, len(doc.Points))
	if err != nil {
		return fmt.Errorf("goSAGES/archive: %w", err)
	}
	return nil
}

//RecordEpoch appends a progress row for the run a document belongs
//to: its iteration, how many bins have samples and how many samples
//there are in total.
func (db *DB) RecordEpoch(doc *checkpoint.Document) error {
	if doc.RunID == "" {
		return fmt.Errorf("goSAGES/archive: the document carries no run identity")
	}
	visited, samples, err := digest(doc)
	if err != nil {
		return err
	}
	_, err = db.Exec("INSERT INTO epochs (run_id, iteration, visited, samples) VALUES (?, ?, ?, ?)",
		doc.RunID, doc.Iteration, visited, samples)
	if err != nil {
		return fmt.Errorf("goSAGES/archive: %w", err)
	}
	return nil
}

//digest boils a document down to the two numbers worth a row.
func digest(doc *checkpoint.Document) (visited, samples int, err error) {
	s, err := histo.New(doc.Points, doc.Lower, doc.Upper, doc.Periodic)
	if err != nil {
		return 0, 0, fmt.Errorf("goSAGES/archive: %w", err)
	}
	if err := s.SetRaw(doc.Counts, doc.Forces); err != nil {
		return 0, 0, fmt.Errorf("goSAGES/archive: %w", err)
	}
	for _, n := range doc.Counts {
		samples += n
	}
	return s.Visited(), samples, nil
}

// RunInfo is one row of the runs table.
type RunInfo struct {
	RunID   string
	Method  string
	Walkers int
	CVs     int
	Started string
}

// EpochInfo is one row of the epochs table.
type EpochInfo struct {
	RunID     string
	Iteration int
	Visited   int
	Samples   int
	Recorded  string
}

//Runs lists the registered runs, oldest first.
func (db *DB) Runs() ([]RunInfo, error) {
	rows, err := db.Query("SELECT run_id, method, walkers, cvs, started FROM runs ORDER BY started")
	if err != nil {
		return nil, fmt.Errorf("goSAGES/archive: %w", err)
	}
	defer rows.Close()
	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.RunID, &r.Method, &r.Walkers, &r.CVs, &r.Started); err != nil {
			return nil, fmt.Errorf("goSAGES/archive: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("goSAGES/archive: %w", err)
	}
	return runs, nil
}

//Epochs lists the recorded epochs of one run, in recording order.
func (db *DB) Epochs(runID string) ([]EpochInfo, error) {
	rows, err := db.Query("SELECT run_id, iteration, visited, samples, recorded FROM epochs WHERE run_id = ? ORDER BY epoch_id", runID)
	if err != nil {
		return nil, fmt.Errorf("goSAGES/archive: %w", err)
	}
	defer rows.Close()
	var epochs []EpochInfo
	for rows.Next() {
		var e EpochInfo
		if err := rows.Scan(&e.RunID, &e.Iteration, &e.Visited, &e.Samples, &e.Recorded); err != nil {
			return nil, fmt.Errorf("goSAGES/archive: %w", err)
		}
		epochs = append(epochs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("goSAGES/archive: %w", err)
	}
	return epochs, nil
}
