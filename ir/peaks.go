package ir

import "spectroscan/models"

// ExtractPeaks finds local absorbance maxima on the smoothed series and
// returns them in ascending wavenumber order. Candidates must be strict
// local maxima among their neighbors within minDistance samples and clear
// the prominence floor. The reported absorbance/transmittance values are
// read back from the original points so intensities reflect real data;
// only the prominence is taken from the smoothed curve.
func ExtractPeaks(smoothed []float64, points []models.SpectrumPoint, cfg Config) []models.DetectedPeak {
	n := len(smoothed)
	peaks := []models.DetectedPeak{}
	if n < 3 {
		return peaks
	}

	minDist := cfg.MinDistance
	if minDist < 1 {
		minDist = 1
	}

	for i := 1; i < n-1; i++ {
		// a strict maximum within minDist samples also guarantees no two
		// accepted peaks sit closer than minDist to each other
		if !isLocalMax(smoothed, i, minDist) {
			continue
		}

		prom := prominence(smoothed, i)
		if prom < cfg.MinProminence {
			continue
		}

		peaks = append(peaks, models.DetectedPeak{
			Wavenumber:    points[i].Wavenumber,
			Absorbance:    points[i].Absorbance,
			Transmittance: points[i].Transmittance,
			Prominence:    prom,
		})
	}

	return peaks
}

// isLocalMax reports whether index i is a strict maximum among all
// neighbors within dist samples.
func isLocalMax(series []float64, i, dist int) bool {
	lo := i - dist
	if lo < 0 {
		lo = 0
	}
	hi := i + dist
	if hi > len(series)-1 {
		hi = len(series) - 1
	}
	for j := lo; j <= hi; j++ {
		if j == i {
			continue
		}
		if series[j] >= series[i] {
			return false
		}
	}
	return true
}

// prominence is the height of the peak above the higher of its two
// bounding valleys. Each side is scanned outward until the series exceeds
// the peak's own height or the boundary is reached; the valley is the
// minimum over the scanned stretch.
func prominence(series []float64, peak int) float64 {
	h := series[peak]

	leftValley := h
	for j := peak - 1; j >= 0; j-- {
		if series[j] > h {
			break
		}
		if series[j] < leftValley {
			leftValley = series[j]
		}
	}

	rightValley := h
	for j := peak + 1; j < len(series); j++ {
		if series[j] > h {
			break
		}
		if series[j] < rightValley {
			rightValley = series[j]
		}
	}

	base := leftValley
	if rightValley > base {
		base = rightValley
	}
	return h - base
}
