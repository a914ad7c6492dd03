package ingest

import (
	"errors"
	"testing"
)

func TestParseJSONColumns(t *testing.T) {
	data := []byte(`{"wavenumber": [1000, 1100], "transmittance": [50, 60]}`)

	points, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if points[1].Wavenumber != 1100 || points[1].Transmittance != 60 || !points[1].HasTransmittance {
		t.Errorf("points[1] = %+v", points[1])
	}
}

func TestParseJSONColumnsBothIntensities(t *testing.T) {
	data := []byte(`{"wavenumber": [1000], "absorbance": [0.30103], "transmittance": [50]}`)

	points, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if !points[0].HasAbsorbance || !points[0].HasTransmittance {
		t.Errorf("both intensities should be present: %+v", points[0])
	}
}

func TestParseJSONPointArray(t *testing.T) {
	data := []byte(`[
		{"wavenumber": 1000, "absorbance": 0.5},
		{"wavenumber": 1100, "absorbance": 0.3},
		{"comment": "no wavenumber, skipped"}
	]`)

	points, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if points[0].Absorbance != 0.5 || !points[0].HasAbsorbance {
		t.Errorf("points[0] = %+v", points[0])
	}
}

func TestParseJSONNoAxis(t *testing.T) {
	_, err := ParseJSON([]byte(`{"absorbance": [0.5]}`))
	if !errors.Is(err, ErrNoAxisColumn) {
		t.Fatalf("err = %v, want ErrNoAxisColumn", err)
	}

	_, err = ParseJSON([]byte(`[{"absorbance": 0.5}]`))
	if !errors.Is(err, ErrNoAxisColumn) {
		t.Fatalf("err = %v, want ErrNoAxisColumn", err)
	}
}

func TestParseJSONNoIntensity(t *testing.T) {
	_, err := ParseJSON([]byte(`{"wavenumber": [1000]}`))
	if !errors.Is(err, ErrNoIntensityColumn) {
		t.Fatalf("err = %v, want ErrNoIntensityColumn", err)
	}
}

func TestParseJSONInvalidPayload(t *testing.T) {
	if _, err := ParseJSON([]byte(`{not json`)); err == nil {
		t.Fatal("invalid JSON should error")
	}
}

func TestParseJSONFractionalTransmittanceScaled(t *testing.T) {
	data := []byte(`{"wavenumber": [1000, 1100], "transmittance": [0.5, 0.6]}`)

	points, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if points[0].Transmittance != 50 {
		t.Errorf("fractional transmittance not scaled: %+v", points[0])
	}
}
