package models

// RawPoint is one row of an upload after parsing: the wavenumber axis is
// always present, at least one of the two intensity columns is.
type RawPoint struct {
	Wavenumber       float64
	Absorbance       float64
	Transmittance    float64
	HasAbsorbance    bool
	HasTransmittance bool
}

// SpectrumPoint is one canonical sample with both intensity
// representations populated and mutually consistent.
type SpectrumPoint struct {
	Wavenumber    float64 `json:"wavenumber"`
	Absorbance    float64 `json:"absorbance"`
	Transmittance float64 `json:"transmittance"`
}

// DetectedPeak is a local absorbance maximum found on the smoothed curve.
// Absorbance and Transmittance are read back from the unsmoothed data so
// reported intensities reflect what was actually measured.
type DetectedPeak struct {
	Wavenumber    float64 `json:"wavenumber"`
	Absorbance    float64 `json:"absorbance"`
	Transmittance float64 `json:"transmittance"`
	Prominence    float64 `json:"prominence"`
}
