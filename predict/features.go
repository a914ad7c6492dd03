// Package predict maps a canonical spectrum onto the feature matrix the
// pre-trained compound classifier expects and adapts its output into a
// label + confidence pair. The classifier itself is a black box behind the
// Classifier interface.
package predict

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"spectroscan/models"
)

// featureCount is the width of the classifier's input matrix. Column
// order is part of the trained model's contract and must never change:
// curvature, gradient, scaled transmittance, scaled wavenumber.
const featureCount = 4

// Scaler holds the standardization parameters fitted at training time.
// They ship as a JSON sidecar next to the model so training and inference
// share one definition; recomputing them per upload would silently skew
// every prediction.
type Scaler struct {
	WavenumberMean    float64
	WavenumberStd     float64
	TransmittanceMean float64
	TransmittanceStd  float64
}

// LoadScaler reads standardization parameters from the model's sidecar:
//
//	{"wavenumber": {"mean": ..., "std": ...}, "transmittance": {"mean": ..., "std": ...}}
func LoadScaler(path string) (Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scaler{}, fmt.Errorf("predict: failed to read scaler sidecar %q: %v", path, err)
	}
	if !gjson.ValidBytes(data) {
		return Scaler{}, fmt.Errorf("predict: scaler sidecar %q is not valid JSON", path)
	}

	root := gjson.ParseBytes(data)
	s := Scaler{
		WavenumberMean:    root.Get("wavenumber.mean").Float(),
		WavenumberStd:     root.Get("wavenumber.std").Float(),
		TransmittanceMean: root.Get("transmittance.mean").Float(),
		TransmittanceStd:  root.Get("transmittance.std").Float(),
	}
	if s.WavenumberStd == 0 || s.TransmittanceStd == 0 {
		return Scaler{}, fmt.Errorf("predict: scaler sidecar %q has zero stddev", path)
	}
	return s, nil
}

// FeatureMatrix is a row-major float32 matrix of per-point features,
// shaped for direct use as a classifier input tensor.
type FeatureMatrix struct {
	Data []float32
	Rows int
	Cols int
}

// BuildFeatures constructs the classifier input from a canonical spectrum.
// Per point: curvature of transmittance, gradient of transmittance, scaled
// transmittance, scaled wavenumber. Percent transmittance is normalized to
// the [0,1] range first. The construction is deterministic: same spectrum,
// same matrix.
func BuildFeatures(points []models.SpectrumPoint, scaler Scaler) *FeatureMatrix {
	n := len(points)

	scaledWn := make([]float64, n)
	scaledTr := make([]float64, n)

	percent := false
	for _, p := range points {
		if p.Transmittance > 1.5 {
			percent = true
			break
		}
	}

	for i, p := range points {
		tr := p.Transmittance
		if percent {
			tr /= 100
		}
		scaledWn[i] = (p.Wavenumber - scaler.WavenumberMean) / scaler.WavenumberStd
		scaledTr[i] = (tr - scaler.TransmittanceMean) / scaler.TransmittanceStd
	}

	grad := gradient(scaledTr)
	curv := gradient(grad)

	m := &FeatureMatrix{
		Data: make([]float32, n*featureCount),
		Rows: n,
		Cols: featureCount,
	}
	for i := 0; i < n; i++ {
		m.Data[i*featureCount+0] = float32(curv[i])
		m.Data[i*featureCount+1] = float32(grad[i])
		m.Data[i*featureCount+2] = float32(scaledTr[i])
		m.Data[i*featureCount+3] = float32(scaledWn[i])
	}
	return m
}

// gradient computes the discrete first derivative with central differences
// in the interior and one-sided differences at the boundaries.
func gradient(y []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	out[0] = y[1] - y[0]
	out[n-1] = y[n-1] - y[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / 2
	}
	return out
}
