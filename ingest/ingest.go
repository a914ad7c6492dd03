// Package ingest turns uploaded spectrum files into the raw table the
// analysis engine consumes: ordered rows of wavenumber plus at least one
// intensity value. Column identity is resolved here so the engine never
// performs ad-hoc coercion.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"spectroscan/models"
)

// ErrNoAxisColumn is returned when no wavenumber or wavelength column can
// be identified in the upload.
var ErrNoAxisColumn = errors.New("ingest: no wavenumber or wavelength column found")

// ErrNoIntensityColumn is returned when neither an absorbance nor a
// transmittance column can be identified.
var ErrNoIntensityColumn = errors.New("ingest: no absorbance or transmittance column found")

// ReadFile parses a spectrum file into raw points, dispatching on the
// file extension. CSV-style text and JSON are accepted.
func ReadFile(path string) ([]models.RawPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: failed to read %q: %v", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse dispatches raw file bytes to the matching format parser.
func Parse(data []byte, ext string) ([]models.RawPoint, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return ParseJSON(data)
	case ".csv", ".txt", ".dat", "":
		return ParseCSV(data)
	default:
		return nil, fmt.Errorf("ingest: unsupported file extension %q", ext)
	}
}
