package database

import (
	"database/sql"
	stdlog "log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/cashflow"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
)

var DB *sql.DB

// InitDB opens the run-history database and ensures its tables. Pipeline runs
// and taxonomy gaps are the only state kept between batches; the canonical
// tables themselves live in the output files.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}
	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		id TEXT PRIMARY KEY,
		statement_date TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		dry_run BOOLEAN DEFAULT FALSE,
		securities_count INTEGER DEFAULT 0,
		transactions_count INTEGER DEFAULT 0,
		api_calls INTEGER DEFAULT 0,
		cache_hits INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS institution_results (
		run_id TEXT NOT NULL,
		institution TEXT NOT NULL,
		status TEXT NOT NULL,
		securities_count INTEGER DEFAULT 0,
		transactions_count INTEGER DEFAULT 0,
		row_errors INTEGER DEFAULT 0,
		error TEXT,
		PRIMARY KEY (run_id, institution),
		FOREIGN KEY(run_id) REFERENCES pipeline_runs(id)
	);

	CREATE TABLE IF NOT EXISTS taxonomy_gaps (
		institution TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		occurrences INTEGER DEFAULT 0,
		last_seen_run TEXT,
		PRIMARY KEY (institution, transaction_type)
	);
	`
	if _, err = DB.Exec(createTableStatement); err != nil {
		logger.L.Error("failed to create tables", "error", err)
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
}

// InsertRun records the start of a batch.
func InsertRun(runID, dateToken string, dryRun bool) error {
	_, err := DB.Exec(
		`INSERT INTO pipeline_runs (id, statement_date, started_at, dry_run) VALUES (?, ?, ?, ?)`,
		runID, dateToken, time.Now().UTC(), dryRun)
	return err
}

// FinishRun closes out a batch row with its totals.
func FinishRun(runID string, securities, transactions int, apiCalls, cacheHits int64) error {
	_, err := DB.Exec(
		`UPDATE pipeline_runs SET finished_at = ?, securities_count = ?, transactions_count = ?, api_calls = ?, cache_hits = ? WHERE id = ?`,
		time.Now().UTC(), securities, transactions, apiCalls, cacheHits, runID)
	return err
}

// InsertInstitutionResult records one institution's outcome for the batch
// summary.
func InsertInstitutionResult(runID, institution, status string, securities, transactions, rowErrors int, transformErr string) error {
	_, err := DB.Exec(
		`INSERT OR REPLACE INTO institution_results (run_id, institution, status, securities_count, transactions_count, row_errors, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, institution, status, securities, transactions, rowErrors, transformErr)
	return err
}

// UpsertTaxonomyGaps accumulates unrecognized (institution, transaction-type)
// pairs across runs so the taxonomy tables can be extended from real data.
func UpsertTaxonomyGaps(runID string, gaps []cashflow.Gap) error {
	for _, g := range gaps {
		_, err := DB.Exec(
			`INSERT INTO taxonomy_gaps (institution, transaction_type, occurrences, last_seen_run)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(institution, transaction_type)
			 DO UPDATE SET occurrences = occurrences + excluded.occurrences, last_seen_run = excluded.last_seen_run`,
			g.Institution, g.Text, g.Count, runID)
		if err != nil {
			return err
		}
	}
	return nil
}
