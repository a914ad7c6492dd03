// Package db persists compact analysis summaries. The backing store is
// selected by the DB_TYPE environment variable: sqlite (default) or mongo.
package db

import (
	"fmt"
	"strings"

	"spectroscan/models"
	"spectroscan/utils"
)

// DBClient is the storage surface the handlers use. Raw spectra are never
// persisted, only per-upload summaries.
type DBClient interface {
	StoreAnalysis(record models.AnalysisRecord) error
	RecentAnalyses(limit int) ([]models.AnalysisRecord, error)
	TotalAnalyses() (int, error)
	DeleteAll() error
	Close() error
}

// NewDBClient builds a client for the configured backend.
func NewDBClient() (DBClient, error) {
	dbType := strings.ToLower(utils.GetEnv("DB_TYPE", "sqlite"))

	switch dbType {
	case "sqlite":
		return NewSQLiteClient(utils.GetEnv("SQLITE_DB_PATH", "spectroscan.db"))
	case "mongo":
		return NewMongoClient(utils.GetEnv("MONGO_URI", "mongodb://localhost:27017"))
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
