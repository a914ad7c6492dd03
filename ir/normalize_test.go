package ir

import (
	"errors"
	"math"
	"testing"

	"spectroscan/models"
)

const floatTolerance = 1e-6

func rawT(wn, t float64) models.RawPoint {
	return models.RawPoint{Wavenumber: wn, Transmittance: t, HasTransmittance: true}
}

func rawA(wn, a float64) models.RawPoint {
	return models.RawPoint{Wavenumber: wn, Absorbance: a, HasAbsorbance: true}
}

func TestConversionRoundTrip(t *testing.T) {
	absorbances := []float64{0.001, 0.30103, 1, 2.5, 4}
	for _, a := range absorbances {
		back := TransmittanceToAbsorbance(AbsorbanceToTransmittance(a))
		if math.Abs(back-a) > floatTolerance {
			t.Errorf("absorbance %v round-tripped to %v", a, back)
		}
	}

	transmittances := []float64{0.01, 1, 50, 99.9}
	for _, tr := range transmittances {
		back := AbsorbanceToTransmittance(TransmittanceToAbsorbance(tr))
		if math.Abs(back-tr) > floatTolerance {
			t.Errorf("transmittance %v round-tripped to %v", tr, back)
		}
	}
}

func TestTransmittance50PercentGivesAbsorbance(t *testing.T) {
	a := TransmittanceToAbsorbance(50)
	if math.Abs(a-0.30103) > 1e-5 {
		t.Errorf("T=50%% should give absorbance ~0.30103, got %v", a)
	}
}

func TestNormalizeFillsBothRepresentations(t *testing.T) {
	points, defects, err := Normalize([]models.RawPoint{
		rawT(1000, 50),
		rawA(2000, 1),
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if defects != 0 {
		t.Errorf("defects = %d, want 0", defects)
	}

	for _, p := range points {
		wantA := -math.Log10(p.Transmittance / 100)
		if math.Abs(p.Absorbance-wantA) > floatTolerance {
			t.Errorf("point at %v: absorbance %v inconsistent with transmittance %v",
				p.Wavenumber, p.Absorbance, p.Transmittance)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	canonical := []models.RawPoint{
		{Wavenumber: 1000, Absorbance: 0.5, Transmittance: AbsorbanceToTransmittance(0.5), HasAbsorbance: true, HasTransmittance: true},
		{Wavenumber: 1100, Absorbance: 0.2, Transmittance: AbsorbanceToTransmittance(0.2), HasAbsorbance: true, HasTransmittance: true},
	}

	points, defects, err := Normalize(canonical)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if defects != 0 {
		t.Errorf("defects = %d, want 0", defects)
	}
	for i, p := range points {
		if p.Wavenumber != canonical[i].Wavenumber ||
			p.Absorbance != canonical[i].Absorbance ||
			p.Transmittance != canonical[i].Transmittance {
			t.Errorf("point %d changed: %+v", i, p)
		}
	}
}

func TestNormalizeSortsByWavenumber(t *testing.T) {
	points, _, err := Normalize([]models.RawPoint{
		rawT(3000, 40), rawT(1000, 50), rawT(2000, 60),
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Wavenumber <= points[i-1].Wavenumber {
			t.Fatalf("output not sorted: %v after %v", points[i].Wavenumber, points[i-1].Wavenumber)
		}
	}
}

func TestNormalizeAveragesDuplicateWavenumbers(t *testing.T) {
	points, defects, err := Normalize([]models.RawPoint{
		rawA(1000, 0.4),
		rawA(1000, 0.6),
		rawA(1100, 0.1),
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if defects != 1 {
		t.Errorf("defects = %d, want 1 (merged duplicate)", defects)
	}
	if math.Abs(points[0].Absorbance-0.5) > floatTolerance {
		t.Errorf("duplicate absorbance averaged to %v, want 0.5", points[0].Absorbance)
	}
}

func TestNormalizeDropsOutOfDomainTransmittance(t *testing.T) {
	points, defects, err := Normalize([]models.RawPoint{
		rawT(1000, 150), // defect: above 100%
		rawT(1100, 50),
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if defects != 1 {
		t.Errorf("defects = %d, want 1", defects)
	}
}

func TestNormalizeDropsOutOfDomainBothGivenRows(t *testing.T) {
	both := func(wn, a, tr float64) models.RawPoint {
		return models.RawPoint{
			Wavenumber: wn, Absorbance: a, Transmittance: tr,
			HasAbsorbance: true, HasTransmittance: true,
		}
	}

	points, defects, err := Normalize([]models.RawPoint{
		both(1000, 0.5, -5),   // defect: supplied transmittance at or below zero
		both(1100, -1.2, 50),  // defect: negative absorbance
		both(1200, 0.3, 50.1), // in-domain, kept even though inconsistent
		both(1300, 0.2, 63.1),
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if defects != 2 {
		t.Errorf("defects = %d, want 2", defects)
	}
	for _, p := range points {
		if p.Transmittance <= 0 || p.Absorbance < 0 {
			t.Errorf("out-of-domain point survived: %+v", p)
		}
	}
}

func TestNormalizeClampsNonPositiveTransmittance(t *testing.T) {
	points, _, err := Normalize([]models.RawPoint{rawT(1000, 0), rawT(1100, -2)})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2 (clamped, not dropped)", len(points))
	}
	for _, p := range points {
		if math.IsInf(p.Absorbance, 0) || math.IsNaN(p.Absorbance) {
			t.Errorf("clamped point produced non-finite absorbance: %v", p.Absorbance)
		}
	}
}

func TestNormalizeAllRowsDropped(t *testing.T) {
	_, _, err := Normalize([]models.RawPoint{rawT(1000, 200)})
	if !errors.Is(err, ErrNoUsableData) {
		t.Fatalf("err = %v, want ErrNoUsableData", err)
	}
}
