package ir

import (
	"errors"
	"math"
	"sort"

	"spectroscan/models"
)

// transmittance values at or below zero are clamped to this before the log
// so a saturated band never produces a non-finite absorbance.
const epsilonTransmittance = 1e-10

// transmittance may exceed 100% by this much before the row is treated as
// a data-quality defect and dropped.
const transmittanceSlack = 1e-6

// supplied absorbance may dip below zero by this much before the row is
// treated as a data-quality defect and dropped.
const absorbanceSlack = 1e-6

// ErrNoUsableData is returned when normalization drops every input row.
var ErrNoUsableData = errors.New("ir: no usable data points after normalization")

// AbsorbanceToTransmittance converts absorbance to percent transmittance.
func AbsorbanceToTransmittance(a float64) float64 {
	return 100 * math.Pow(10, -a)
}

// TransmittanceToAbsorbance converts percent transmittance to absorbance.
// Non-positive transmittance is clamped to a small epsilon first.
func TransmittanceToAbsorbance(t float64) float64 {
	if t <= 0 {
		t = epsilonTransmittance
	}
	return -math.Log10(t / 100)
}

// Normalize canonicalizes a raw table into spectrum points carrying both
// intensity representations, sorted ascending by wavenumber with duplicate
// wavenumbers averaged. Out-of-domain rows (transmittance above 100% or at
// or below zero when supplied directly, negative absorbance) are dropped
// and counted as defects rather than failing the upload. The returned
// defect count covers dropped and merged rows.
func Normalize(raw []models.RawPoint) ([]models.SpectrumPoint, int, error) {
	points := make([]models.SpectrumPoint, 0, len(raw))
	defects := 0

	for _, rp := range raw {
		p := models.SpectrumPoint{Wavenumber: rp.Wavenumber}

		switch {
		case rp.HasAbsorbance && rp.HasTransmittance:
			// upstream parsing already resolved column identity; trust both
			// values but still hold each to its own domain
			if rp.Transmittance <= 0 {
				defects++
				continue
			}
			p.Absorbance = rp.Absorbance
			p.Transmittance = rp.Transmittance
		case rp.HasAbsorbance:
			p.Absorbance = rp.Absorbance
			p.Transmittance = AbsorbanceToTransmittance(rp.Absorbance)
		case rp.HasTransmittance:
			p.Transmittance = rp.Transmittance
			p.Absorbance = TransmittanceToAbsorbance(rp.Transmittance)
		default:
			defects++
			continue
		}

		if p.Transmittance > 100+transmittanceSlack {
			defects++
			continue
		}
		if p.Absorbance < -absorbanceSlack {
			defects++
			continue
		}
		if math.IsNaN(p.Wavenumber) || math.IsNaN(p.Absorbance) || math.IsNaN(p.Transmittance) ||
			math.IsInf(p.Absorbance, 0) {
			defects++
			continue
		}

		points = append(points, p)
	}

	if len(points) == 0 {
		return nil, defects, ErrNoUsableData
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Wavenumber < points[j].Wavenumber
	})

	points, merged := dedupeWavenumbers(points)
	defects += merged

	return points, defects, nil
}

// dedupeWavenumbers averages runs of points sharing a wavenumber. The
// input must already be sorted. Merged points keep the absorbance average
// and re-derive transmittance from it so the two stay consistent.
// Returns the number of merged rows.
func dedupeWavenumbers(points []models.SpectrumPoint) ([]models.SpectrumPoint, int) {
	out := points[:0]
	merged := 0

	for i := 0; i < len(points); {
		j := i + 1
		sumA := points[i].Absorbance
		for j < len(points) && points[j].Wavenumber == points[i].Wavenumber {
			sumA += points[j].Absorbance
			j++
		}
		p := points[i]
		if j > i+1 {
			p.Absorbance = sumA / float64(j-i)
			p.Transmittance = AbsorbanceToTransmittance(p.Absorbance)
			merged += j - i - 1
		}
		out = append(out, p)
		i = j
	}

	return out, merged
}
