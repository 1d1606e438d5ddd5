package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"propscout/models"
)

// SQLiteStore is the local operational log. Every resolution attempt gets a
// row regardless of whether the inquiry was persisted to Postgres.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resolve_runs (
		id INTEGER PRIMARY KEY,
		raw_text TEXT,
		status TEXT,
		used_fallback BOOLEAN DEFAULT FALSE,
		inventory_count INTEGER DEFAULT 0,
		link_count INTEGER DEFAULT 0,
		scraped_count INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		started_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_resolve_runs_started ON resolve_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_resolve_runs_status ON resolve_runs(status, started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.ResolveRun) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO resolve_runs (raw_text, status, used_fallback, inventory_count,
			link_count, scraped_count, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RawText, run.Status, run.UsedFallback, run.InventoryCount,
		run.LinkCount, run.ScrapedCount, run.DurationMS, run.StartedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetRecentRuns(limit int) ([]models.ResolveRun, error) {
	rows, err := s.db.Query(`
		SELECT id, raw_text, status, used_fallback, inventory_count,
			link_count, scraped_count, duration_ms, started_at
		FROM resolve_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ResolveRun
	for rows.Next() {
		var run models.ResolveRun
		if err := rows.Scan(&run.ID, &run.RawText, &run.Status, &run.UsedFallback,
			&run.InventoryCount, &run.LinkCount, &run.ScrapedCount, &run.DurationMS,
			&run.StartedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunStats summarizes recent resolution activity for the health endpoint.
type RunStats struct {
	Total        int     `json:"total"`
	Failed       int     `json:"failed"`
	FallbackRate float64 `json:"fallback_rate"`
}

func (s *SQLiteStore) GetRunStats(since time.Time) (*RunStats, error) {
	var stats RunStats
	var fallbacks int
	err := s.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN used_fallback THEN 1 ELSE 0 END), 0)
		FROM resolve_runs WHERE started_at >= ?`, since).Scan(&stats.Total, &stats.Failed, &fallbacks)
	if err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.FallbackRate = float64(fallbacks) / float64(stats.Total)
	}
	return &stats, nil
}
