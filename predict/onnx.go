package predict

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	ort "github.com/yalue/onnxruntime_go"
)

// OnnxConfig locates the exported classifier and its sidecars.
type OnnxConfig struct {
	ModelPath   string // exported .onnx model
	LabelsPath  string // JSON array mapping class index -> compound name
	ScalerPath  string // standardization sidecar, see LoadScaler
	LibraryPath string // onnxruntime shared library; empty uses the system default
	InputName   string
	OutputName  string
}

// DefaultOnnxConfig points at the conventional model bundle layout.
func DefaultOnnxConfig(dir string) OnnxConfig {
	return OnnxConfig{
		ModelPath:  dir + "/compound_classifier.onnx",
		LabelsPath: dir + "/labels.json",
		ScalerPath: dir + "/scaler.json",
		InputName:  "input",
		OutputName: "label",
	}
}

// OnnxClassifier runs the pre-trained compound model through onnxruntime.
// It predicts a class per spectrum point and reduces the votes to the
// modal compound; the vote share doubles as the confidence score.
type OnnxClassifier struct {
	session *ort.DynamicAdvancedSession
	labels  []string
	scaler  Scaler
}

// NewOnnxClassifier initializes the onnxruntime environment (once per
// process) and opens a session on the model.
func NewOnnxClassifier(cfg OnnxConfig) (*OnnxClassifier, error) {
	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	scaler, err := LoadScaler(cfg.ScalerPath)
	if err != nil {
		return nil, err
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("predict: failed to initialize onnxruntime: %v", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("predict: failed to open model session: %v", err)
	}

	return &OnnxClassifier{session: session, labels: labels, scaler: scaler}, nil
}

// Scaler returns the standardization parameters bundled with the model.
func (c *OnnxClassifier) Scaler() Scaler {
	return c.scaler
}

// Predict runs the model over the feature matrix.
func (c *OnnxClassifier) Predict(features *FeatureMatrix) (Prediction, error) {
	if features == nil || features.Rows == 0 {
		return Prediction{}, fmt.Errorf("predict: empty feature matrix")
	}

	input, err := ort.NewTensor(
		ort.NewShape(int64(features.Rows), int64(features.Cols)),
		features.Data,
	)
	if err != nil {
		return Prediction{}, fmt.Errorf("predict: failed to create input tensor: %v", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[int64](ort.NewShape(int64(features.Rows)))
	if err != nil {
		return Prediction{}, fmt.Errorf("predict: failed to create output tensor: %v", err)
	}
	defer output.Destroy()

	if err := c.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return Prediction{}, fmt.Errorf("predict: model run failed: %v", err)
	}

	class, share := modalVote(output.GetData())
	if class < 0 || int(class) >= len(c.labels) {
		return Prediction{}, fmt.Errorf("predict: model returned unknown class %d", class)
	}

	return Prediction{Label: c.labels[class], Confidence: share}, nil
}

// Close releases the model session.
func (c *OnnxClassifier) Close() error {
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return fmt.Errorf("predict: failed to destroy session: %v", err)
		}
		c.session = nil
	}
	return nil
}

func loadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("predict: failed to read labels %q: %v", path, err)
	}
	result := gjson.ParseBytes(data)
	if !result.IsArray() {
		return nil, fmt.Errorf("predict: labels file %q must be a JSON array", path)
	}

	var labels []string
	for _, v := range result.Array() {
		labels = append(labels, v.String())
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("predict: labels file %q is empty", path)
	}
	return labels, nil
}
