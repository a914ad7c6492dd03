package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"spectroscan/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           INTEGER PRIMARY KEY,
	filename     TEXT NOT NULL,
	compound     TEXT NOT NULL,
	confidence   REAL NOT NULL,
	peak_count   INTEGER NOT NULL,
	match_count  INTEGER NOT NULL,
	defect_count INTEGER NOT NULL,
	analyzed_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_time ON analyses(analyzed_at DESC);
`

// SQLiteClient stores analysis history in a local sqlite file.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens (and if needed initializes) the database file.
// WAL keeps concurrent reads from blocking on writes.
func NewSQLiteClient(path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %q: %v", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set sqlite pragmas: %v", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %v", err)
	}

	return &SQLiteClient{db: db}, nil
}

func (c *SQLiteClient) StoreAnalysis(record models.AnalysisRecord) error {
	_, err := c.db.Exec(
		`INSERT INTO analyses
		 (id, filename, compound, confidence, peak_count, match_count, defect_count, analyzed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Filename, record.Compound, record.Confidence,
		record.PeakCount, record.MatchCount, record.DefectCount, record.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store analysis: %v", err)
	}
	return nil
}

func (c *SQLiteClient) RecentAnalyses(limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.Query(
		`SELECT id, filename, compound, confidence, peak_count, match_count, defect_count, analyzed_at
		 FROM analyses ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %v", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		if err := rows.Scan(&r.ID, &r.Filename, &r.Compound, &r.Confidence,
			&r.PeakCount, &r.MatchCount, &r.DefectCount, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %v", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (c *SQLiteClient) TotalAnalyses() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM analyses").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %v", err)
	}
	return n, nil
}

func (c *SQLiteClient) DeleteAll() error {
	if _, err := c.db.Exec("DELETE FROM analyses"); err != nil {
		return fmt.Errorf("failed to clear analyses: %v", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	return c.db.Close()
}
