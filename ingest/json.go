package ingest

import (
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/tidwall/gjson"

	"spectroscan/models"
)

// ParseJSON accepts two layouts: a column object
//
//	{"wavenumber": [...], "absorbance": [...], "transmittance": [...]}
//
// with at least one intensity array, or an array of point objects
//
//	[{"wavenumber": 1700, "transmittance": 52.1}, ...]
func ParseJSON(data []byte) ([]models.RawPoint, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("ingest: invalid JSON payload")
	}

	root := gjson.ParseBytes(data)
	if root.IsArray() {
		return parseJSONPoints(data)
	}
	return parseJSONColumns(root)
}

func parseJSONColumns(root gjson.Result) ([]models.RawPoint, error) {
	wn := root.Get("wavenumber")
	if !wn.Exists() {
		wn = root.Get("wavenumbers")
	}
	if !wn.Exists() || !wn.IsArray() {
		return nil, ErrNoAxisColumn
	}

	abs := root.Get("absorbance").Array()
	trans := root.Get("transmittance").Array()
	if len(abs) == 0 && len(trans) == 0 {
		return nil, ErrNoIntensityColumn
	}

	wns := wn.Array()
	points := make([]models.RawPoint, 0, len(wns))
	for i, v := range wns {
		p := models.RawPoint{Wavenumber: v.Float()}
		if i < len(abs) {
			p.Absorbance = abs[i].Float()
			p.HasAbsorbance = true
		}
		if i < len(trans) {
			p.Transmittance = trans[i].Float()
			p.HasTransmittance = true
		}
		if !p.HasAbsorbance && !p.HasTransmittance {
			continue
		}
		points = append(points, p)
	}

	normalizeTransmittanceScale(points)
	return points, nil
}

// parseJSONPoints streams an array of point objects without building an
// intermediate DOM; uploads can carry tens of thousands of points.
func parseJSONPoints(data []byte) ([]models.RawPoint, error) {
	var points []models.RawPoint
	sawAxis := false
	sawIntensity := false

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.Object {
			return
		}

		wn, err := jsonparser.GetFloat(value, "wavenumber")
		if err != nil {
			return
		}
		sawAxis = true

		p := models.RawPoint{Wavenumber: wn}
		if a, err := jsonparser.GetFloat(value, "absorbance"); err == nil {
			p.Absorbance = a
			p.HasAbsorbance = true
		}
		if t, err := jsonparser.GetFloat(value, "transmittance"); err == nil {
			p.Transmittance = t
			p.HasTransmittance = true
		}
		if !p.HasAbsorbance && !p.HasTransmittance {
			return
		}
		sawIntensity = true
		points = append(points, p)
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: failed to parse JSON points: %v", err)
	}

	if !sawAxis {
		return nil, ErrNoAxisColumn
	}
	if !sawIntensity {
		return nil, ErrNoIntensityColumn
	}

	normalizeTransmittanceScale(points)
	return points, nil
}
