package models

import "time"

// AnalysisRecord is the compact summary of one processed upload kept in
// the history store. Raw spectra are not persisted.
type AnalysisRecord struct {
	ID          uint32    `json:"id" bson:"_id"`
	Filename    string    `json:"filename" bson:"filename"`
	Compound    string    `json:"compound" bson:"compound"`
	Confidence  float64   `json:"confidence" bson:"confidence"`
	PeakCount   int       `json:"peakCount" bson:"peak_count"`
	MatchCount  int       `json:"matchCount" bson:"match_count"`
	DefectCount int       `json:"defectCount" bson:"defect_count"`
	AnalyzedAt  time.Time `json:"analyzedAt" bson:"analyzed_at"`
}
