package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"spectroscan/models"
)

// axisKind identifies how the x column encodes position on the spectrum.
type axisKind int

const (
	axisWavenumber axisKind = iota
	axisMicrometers
	axisNanometers
)

// intensityKind identifies the y column's representation.
type intensityKind int

const (
	intensityTransmittance intensityKind = iota
	intensityAbsorbance
)

var axisHeaders = map[string]axisKind{
	"cm-1":            axisWavenumber,
	"1/cm":            axisWavenumber,
	"cm^-1":           axisWavenumber,
	"wavenumber":      axisWavenumber,
	"wavenumbers":     axisWavenumber,
	"micrometers":     axisMicrometers,
	"um":              axisMicrometers,
	"wavelength (um)": axisMicrometers,
	"nanometers":      axisNanometers,
	"nm":              axisNanometers,
	"wavelength (nm)": axisNanometers,
}

var intensityHeaders = map[string]intensityKind{
	"transmittance":                 intensityTransmittance,
	"t":                             intensityTransmittance,
	"absorbance":                    intensityAbsorbance,
	"a":                             intensityAbsorbance,
	"(micromol/mol)-1m-1 (base 10)": intensityAbsorbance,
}

// ParseCSV locates the header row by keyword, then reads numeric rows.
// Wavelength axes are converted to wavenumbers; fractional transmittance
// (0..1) is scaled to percent. Malformed data rows are skipped.
func ParseCSV(data []byte) ([]models.RawPoint, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}

	xIdx, yIdx := -1, -1
	var xKind axisKind
	var yKind intensityKind
	dataStart := 0

	for rowNum, row := range rows {
		for i, cell := range row {
			key := strings.ToLower(strings.TrimSpace(cell))
			if xIdx < 0 {
				if kind, ok := axisHeaders[key]; ok {
					xIdx, xKind = i, kind
				}
			}
			if yIdx < 0 {
				if kind, ok := intensityHeaders[key]; ok {
					yIdx, yKind = i, kind
				}
			}
		}
		if xIdx >= 0 && yIdx >= 0 {
			dataStart = rowNum + 1
			break
		}
	}

	if xIdx < 0 {
		return nil, ErrNoAxisColumn
	}
	if yIdx < 0 {
		return nil, ErrNoIntensityColumn
	}

	var points []models.RawPoint
	for _, row := range rows[dataStart:] {
		if xIdx >= len(row) || yIdx >= len(row) {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(row[xIdx]), 64)
		if err != nil {
			continue
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(row[yIdx]), 64)
		if err != nil {
			continue
		}

		p := models.RawPoint{Wavenumber: toWavenumber(x, xKind)}
		switch yKind {
		case intensityTransmittance:
			p.Transmittance = y
			p.HasTransmittance = true
		case intensityAbsorbance:
			p.Absorbance = y
			p.HasAbsorbance = true
		}
		points = append(points, p)
	}

	normalizeTransmittanceScale(points)
	return points, nil
}

// toWavenumber converts an x-axis value to cm^-1.
func toWavenumber(x float64, kind axisKind) float64 {
	switch kind {
	case axisMicrometers:
		if x == 0 {
			return 0
		}
		return 10000.0 / x
	case axisNanometers:
		if x == 0 {
			return 0
		}
		return 1e7 / x
	default:
		return x
	}
}

// normalizeTransmittanceScale rescales fractional transmittance (0..1,
// common in NIST-style exports) to percent. Percent data always has
// values above 1.5 somewhere in a real spectrum.
func normalizeTransmittanceScale(points []models.RawPoint) {
	max := 0.0
	any := false
	for _, p := range points {
		if p.HasTransmittance {
			any = true
			if p.Transmittance > max {
				max = p.Transmittance
			}
		}
	}
	if !any || max > 1.5 {
		return
	}
	for i := range points {
		if points[i].HasTransmittance {
			points[i].Transmittance *= 100
		}
	}
}
