// Package ir implements the peak-detection-and-correlation engine:
// normalization of spectra into canonical absorbance/transmittance pairs,
// Savitzky-Golay smoothing, prominence-based peak extraction, and matching
// of detected peaks against the reference correlation table.
package ir

// Config controls all tunable parameters in the normalization, smoothing,
// peak extraction, and correlation pipeline.
type Config struct {
	SmoothWindow   int     // Savitzky-Golay window length in samples (odd, >= 5)
	PolyOrder      int     // Savitzky-Golay polynomial order (< SmoothWindow)
	MinProminence  float64 // minimum peak prominence in absorbance units
	MinDistance    int     // minimum sample spacing between accepted peaks
	MatchTolerance float64 // wavenumber margin around reference intervals, cm-1
}

// DefaultIRConfig returns the parameters used for routine single-compound
// FTIR spectra: a 15-sample cubic smoothing window and a prominence floor
// low enough to keep weak overtone bands.
func DefaultIRConfig() Config {
	return Config{
		SmoothWindow:   15,
		PolyOrder:      3,
		MinProminence:  0.005,
		MinDistance:    1,
		MatchTolerance: 10, // typical FTIR instrument resolution margin
	}
}
