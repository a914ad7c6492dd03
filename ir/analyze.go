package ir

import (
	"fmt"
	"log"

	"spectroscan/models"
	"spectroscan/reference"
)

// Result bundles everything the pipeline produced for one upload.
type Result struct {
	Spectrum []models.SpectrumPoint   // canonical, sorted, deduplicated
	Smoothed []float64                // smoothed absorbance series
	Peaks    []models.DetectedPeak    // ascending wavenumber
	Report   models.CorrelationReport // grouped matches + unmatched peaks
	Defects  int                      // rows dropped or merged during normalization
}

// Analyze runs the full pipeline over a raw table: normalize to the
// canonical representation, smooth the absorbance series, extract peaks,
// and match them against the given reference table snapshot. Zero peaks
// is a valid outcome; the only error paths are an upload with no usable
// rows and a missing reference table.
func Analyze(raw []models.RawPoint, table *reference.Table, cfg Config) (*Result, error) {
	if table == nil {
		return nil, fmt.Errorf("ir: nil reference table")
	}

	points, defects, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	if defects > 0 {
		log.Printf("[analyze] dropped or merged %d defective rows of %d", defects, len(raw))
	}

	absorbance := make([]float64, len(points))
	for i, p := range points {
		absorbance[i] = p.Absorbance
	}

	smoothed := SavitzkyGolay(absorbance, cfg.SmoothWindow, cfg.PolyOrder)
	peaks := ExtractPeaks(smoothed, points, cfg)
	report := Match(peaks, table, cfg.MatchTolerance)

	log.Printf("[analyze] %d points, %d peaks, %d matches, %d unmatched",
		len(points), len(peaks), report.TotalMatches(), len(report.Unmatched))

	return &Result{
		Spectrum: points,
		Smoothed: smoothed,
		Peaks:    peaks,
		Report:   report,
		Defects:  defects,
	}, nil
}
